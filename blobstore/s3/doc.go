// Package s3 implements blobstore.Store on Amazon S3.
//
// Documents upload through the SDK's transfer manager with CRC32C
// validation, so large meshes stream in parallel multipart uploads
// without buffering the whole payload per part.
package s3
