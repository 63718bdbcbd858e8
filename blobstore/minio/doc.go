// Package minio implements blobstore.Store for MinIO and other
// S3-compatible object stores.
//
// Use it when documents live on self-hosted object storage; the AWS SDK
// based s3 package stays pointed at Amazon endpoints, while minio-go
// speaks to anything S3-compatible:
//
//	client, err := minio.New("play.min.io", &minio.Options{
//		Creds: credentials.NewStaticV4(accessKey, secretKey, ""),
//	})
//	store := miniostore.NewStore(client, "meshes", "models/")
package minio
