// Command optimize-stl converts an STL model into a multi-resolution
// optimized-mesh JSON document.
//
// Usage:
//
//	optimize-stl [flags] input.stl output.json
//
// By default the document is written to the local filesystem. With
// -store s3 or -store minio the output name becomes an object key in the
// configured bucket. Flags override values from the optional YAML config.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"gopkg.in/yaml.v3"

	meshopt "github.com/Ram9299/3dshape-explorer"
	"github.com/Ram9299/3dshape-explorer/blobstore"
	minios "github.com/Ram9299/3dshape-explorer/blobstore/minio"
	"github.com/Ram9299/3dshape-explorer/blobstore/s3"
	"github.com/Ram9299/3dshape-explorer/resource"
	"github.com/Ram9299/3dshape-explorer/stl"
)

// config mirrors the flag set so runs can be captured in a YAML file.
type config struct {
	Ratios      []float64 `yaml:"ratios"`
	Epsilon     *float64  `yaml:"epsilon"`
	Progressive bool      `yaml:"progressive"`
	Parallel    int       `yaml:"parallel"`
	Store       string    `yaml:"store"`
	Bucket      string    `yaml:"bucket"`
	Prefix      string    `yaml:"prefix"`
	Endpoint    string    `yaml:"endpoint"`
	Compress    string    `yaml:"compress"`
	IOLimit     int       `yaml:"io_limit_bytes_per_sec"`
	Verbose     bool      `yaml:"verbose"`
}

func defaultConfig() config {
	return config{
		Ratios:   []float64{1.0, 0.5, 0.25},
		Store:    "local",
		Compress: "none",
		Parallel: 1,
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "optimize-stl: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := defaultConfig()

	configPath := flag.String("config", "", "YAML config file")
	ratios := flag.String("ratios", "", "comma-separated detail ratios in (0,1]")
	epsilon := flag.Float64("epsilon", -1, "absolute vertex merge tolerance (default: size-relative)")
	progressive := flag.Bool("progressive", false, "chain decimation level-to-level")
	parallel := flag.Int("parallel", 0, "levels built concurrently")
	store := flag.String("store", "", "output store: local, s3 or minio")
	bucket := flag.String("bucket", "", "bucket for s3/minio stores")
	prefix := flag.String("prefix", "", "key prefix for s3/minio stores")
	endpoint := flag.String("endpoint", "", "minio endpoint host:port")
	compress := flag.String("compress", "", "document compression: none, zstd or lz4")
	ioLimit := flag.Int("io-limit", 0, "store write limit in bytes/sec (0 = unlimited)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] input.stl output.json\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		return fmt.Errorf("expected input.stl and output.json arguments")
	}
	input, output := flag.Arg(0), flag.Arg(1)

	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	}

	// Flags win over config file values.
	if *ratios != "" {
		parsed, err := parseRatios(*ratios)
		if err != nil {
			return err
		}
		cfg.Ratios = parsed
	}
	if *epsilon >= 0 {
		cfg.Epsilon = epsilon
	}
	if *progressive {
		cfg.Progressive = true
	}
	if *parallel > 0 {
		cfg.Parallel = *parallel
	}
	if *store != "" {
		cfg.Store = *store
	}
	if *bucket != "" {
		cfg.Bucket = *bucket
	}
	if *prefix != "" {
		cfg.Prefix = *prefix
	}
	if *endpoint != "" {
		cfg.Endpoint = *endpoint
	}
	if *compress != "" {
		cfg.Compress = *compress
	}
	if *ioLimit > 0 {
		cfg.IOLimit = *ioLimit
	}
	if *verbose {
		cfg.Verbose = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return optimize(ctx, cfg, input, output)
}

func optimize(ctx context.Context, cfg config, input, output string) error {
	f, err := os.Open(input)
	if err != nil {
		return err
	}
	soup, err := stl.Read(f)
	_ = f.Close()
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}

	opts := []meshopt.Option{
		meshopt.WithRatios(cfg.Ratios...),
		meshopt.WithParallel(cfg.Parallel),
		meshopt.WithLogLevel(level),
	}
	if cfg.Epsilon != nil {
		opts = append(opts, meshopt.WithEpsilon(*cfg.Epsilon))
	}
	if cfg.Progressive {
		opts = append(opts, meshopt.WithProgressive())
	}
	if cfg.IOLimit > 0 {
		opts = append(opts, meshopt.WithResourceController(resource.NewController(resource.Config{
			MaxWorkers:         int64(cfg.Parallel),
			IOLimitBytesPerSec: int64(cfg.IOLimit),
		})))
	}

	opt, err := meshopt.New(opts...)
	if err != nil {
		return err
	}

	result, err := opt.Optimize(ctx, soup)
	if err != nil {
		return err
	}

	st, name, err := openStore(ctx, cfg, output)
	if err != nil {
		return err
	}

	return opt.SaveDocument(ctx, st, name, result.Document())
}

func openStore(ctx context.Context, cfg config, output string) (blobstore.Store, string, error) {
	var (
		st  blobstore.Store
		err error
	)

	switch cfg.Store {
	case "local", "":
		dir, name := ".", output
		if i := strings.LastIndexByte(output, '/'); i >= 0 {
			dir, name = output[:i], output[i+1:]
		}
		st, err = blobstore.NewLocalStore(dir)
		if err != nil {
			return nil, "", err
		}
		output = name

	case "s3":
		if cfg.Bucket == "" {
			return nil, "", fmt.Errorf("s3 store requires -bucket")
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("load AWS config: %w", err)
		}
		st = s3.NewStore(awss3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Prefix)

	case "minio":
		if cfg.Bucket == "" || cfg.Endpoint == "" {
			return nil, "", fmt.Errorf("minio store requires -bucket and -endpoint")
		}
		client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
			Creds: credentials.NewEnvMinio(),
		})
		if err != nil {
			return nil, "", fmt.Errorf("minio client: %w", err)
		}
		st = minios.NewStore(client, cfg.Bucket, cfg.Prefix)

	default:
		return nil, "", fmt.Errorf("unknown store %q", cfg.Store)
	}

	switch cfg.Compress {
	case "", "none":
	case "zstd":
		zc, err := blobstore.NewZstdCompressor()
		if err != nil {
			return nil, "", err
		}
		st = blobstore.NewCompressingStore(st, zc)
	case "lz4":
		st = blobstore.NewCompressingStore(st, blobstore.LZ4Compressor{})
	default:
		return nil, "", fmt.Errorf("unknown compression %q", cfg.Compress)
	}

	return st, output, nil
}

func parseRatios(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	ratios := make([]float64, 0, len(parts))
	for _, p := range parts {
		r, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bad ratio %q: %w", p, err)
		}
		ratios = append(ratios, r)
	}
	return ratios, nil
}
