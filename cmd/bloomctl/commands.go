package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-redis/redis"
	"k8s.io/klog/v2"

	"github.com/strategist922/bloomfilters"
	"github.com/strategist922/bloomfilters/bloom"
	"github.com/strategist922/bloomfilters/redisstore"
)

const (
	kindBloom    = "bloom"
	kindDynamic  = "dynamic"
	kindRotating = "rotating"
)

func loadConfig(path string) (bloomfilters.RowConfig, error) {
	if path == "" {
		return bloomfilters.DefaultRowConfig(), nil
	}
	return bloomfilters.LoadConfig(path)
}

func newFilter(kind string, cfg bloomfilters.RowConfig) (bloom.Filter, error) {
	switch kind {
	case kindBloom:
		return bloom.NewFromConfig(cfg.Config)
	case kindDynamic:
		return bloomfilters.NewDynamicFromConfig(cfg)
	case kindRotating:
		return bloomfilters.NewRotatingFromConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown filter kind %q", kind)
	}
}

func decodeFilter(kind string, r io.Reader) (bloom.Filter, error) {
	switch kind {
	case kindBloom:
		return bloom.ReadBloomFilter(r)
	case kindDynamic:
		return bloomfilters.ReadDynamicBloomFilter(r)
	default:
		return nil, fmt.Errorf("filter kind %q has no file format", kind)
	}
}

func readFilter(kind, path string) (bloom.Filter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeFilter(kind, bufio.NewReader(f))
}

func writeFilter(path string, f bloom.Filter) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(out)
	if _, err := f.WriteTo(w); err != nil {
		out.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// readKeys returns one key per non-empty line.
func readKeys(path string) ([]*bloom.Key, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	keys := []*bloom.Key{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := sc.Text(); line != "" {
			keys = append(keys, bloom.NewStringKey(line))
		}
	}
	return keys, sc.Err()
}

func requireFlags(fs *flag.FlagSet, names ...string) error {
	for _, name := range names {
		if fs.Lookup(name).Value.String() == "" {
			return fmt.Errorf("-%s is required", name)
		}
	}
	return nil
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML row configuration, defaults when empty")
	kind := fs.String("kind", kindBloom, "bloom or dynamic")
	keysPath := fs.String("keys", "", "file with one key per line")
	outPath := fs.String("out", "", "output filter file")
	fs.Parse(args)
	if err := requireFlags(fs, "keys", "out"); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	f, err := newFilter(*kind, cfg)
	if err != nil {
		return err
	}
	keys, err := readKeys(*keysPath)
	if err != nil {
		return err
	}
	for i, k := range keys {
		if err := f.Add(k); err != nil {
			return fmt.Errorf("key %d: %w", i, err)
		}
	}
	if err := writeFilter(*outPath, f); err != nil {
		return err
	}
	klog.Infof("wrote %d keys into %s (%s)", len(keys), *outPath, *kind)
	return nil
}

func runTest(args []string) error {
	fs := flag.NewFlagSet("test", flag.ExitOnError)
	kind := fs.String("kind", kindBloom, "bloom or dynamic")
	inPath := fs.String("in", "", "filter file")
	keysPath := fs.String("keys", "", "file with one key per line")
	fs.Parse(args)
	if err := requireFlags(fs, "in", "keys"); err != nil {
		return err
	}

	f, err := readFilter(*kind, *inPath)
	if err != nil {
		return err
	}
	keys, err := readKeys(*keysPath)
	if err != nil {
		return err
	}
	for _, k := range keys {
		verdict := "absent"
		if f.MembershipTest(k) {
			verdict = "member"
		}
		fmt.Printf("%s\t%s\n", verdict, k)
	}
	return nil
}

func runDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	kind := fs.String("kind", kindBloom, "bloom or dynamic")
	inPath := fs.String("in", "", "filter file")
	fs.Parse(args)
	if err := requireFlags(fs, "in"); err != nil {
		return err
	}

	f, err := readFilter(*kind, *inPath)
	if err != nil {
		return err
	}
	cfg := f.Config()
	fmt.Printf("vector size %d, hash count %d, hash %s\n", cfg.VectorSize, cfg.HashCount, cfg.HashType)
	fmt.Println(f.String())
	return nil
}

func runFPR(args []string) error {
	fs := flag.NewFlagSet("fpr", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML row configuration, defaults when empty")
	kind := fs.String("kind", kindBloom, "bloom, dynamic or rotating")
	n := fs.Int("n", 5000, "keys to insert")
	probes := fs.Int("probes", 100000, "absent keys to probe")
	keyLength := fs.Int("length", 16, "random key length")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	f, err := newFilter(*kind, cfg)
	if err != nil {
		return err
	}

	inserted := bloom.RandKeys(*n, *keyLength)
	seen := make(map[string]bool, len(inserted))
	for _, k := range inserted {
		seen[string(k.Bytes())] = true
		if err := f.Add(k); err != nil {
			return err
		}
	}

	falsePositives, probed := 0, 0
	for probed < *probes {
		s := bloom.RandString(*keyLength)
		if seen[s] {
			continue
		}
		probed++
		if f.MembershipTest(bloom.NewStringKey(s)) {
			falsePositives++
		}
	}
	rate := 0.0
	if probed > 0 {
		rate = float64(falsePositives) / float64(probed)
	}
	fmt.Printf("%s m=%d k=%d %s: %d keys, %d/%d false positives, rate %.6f\n",
		*kind, cfg.VectorSize, cfg.HashCount, cfg.HashType, len(inserted), falsePositives, probed, rate)
	return nil
}

type redisFlags struct {
	addr        *string
	name        *string
	compression *string
	ttl         *time.Duration
	bitmap      *bool
}

func addRedisFlags(fs *flag.FlagSet) redisFlags {
	return redisFlags{
		addr:        fs.String("redis", "localhost:6379", "redis address"),
		name:        fs.String("name", "", "redis key, after the prefix"),
		compression: fs.String("compression", "lz4", "none, lz4 or zstd"),
		ttl:         fs.Duration("ttl", 0, "key expiry, zero keeps the key"),
		bitmap:      fs.Bool("bitmap", false, "use a shared redis bitmap instead of the encoded filter (bloom kind only)"),
	}
}

func (rf redisFlags) store(prefix string) (*redisstore.Store, func() error, error) {
	c, err := redisstore.ParseCompression(*rf.compression)
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(&redis.Options{Addr: *rf.addr})
	s := redisstore.New(client, redisstore.Options{KeyPrefix: prefix, Compression: c, TTL: *rf.ttl})
	return s, client.Close, nil
}

func runPush(args []string) error {
	fs := flag.NewFlagSet("push", flag.ExitOnError)
	kind := fs.String("kind", kindBloom, "bloom or dynamic")
	inPath := fs.String("in", "", "filter file")
	prefix := fs.String("prefix", "bloom-", "redis key prefix")
	rf := addRedisFlags(fs)
	fs.Parse(args)
	if err := requireFlags(fs, "in", "name"); err != nil {
		return err
	}

	f, err := readFilter(*kind, *inPath)
	if err != nil {
		return err
	}
	s, closeFn, err := rf.store(*prefix)
	if err != nil {
		return err
	}
	defer closeFn()

	if *rf.bitmap {
		b, ok := f.(*bloom.BloomFilter)
		if !ok {
			return fmt.Errorf("-bitmap needs -kind %s", kindBloom)
		}
		return s.SyncBitmap(*rf.name, b)
	}
	return s.Put(*rf.name, f)
}

func runPull(args []string) error {
	fs := flag.NewFlagSet("pull", flag.ExitOnError)
	kind := fs.String("kind", kindBloom, "bloom or dynamic")
	outPath := fs.String("out", "", "output filter file")
	prefix := fs.String("prefix", "bloom-", "redis key prefix")
	configPath := fs.String("config", "", "YAML row configuration giving the bitmap shape")
	rf := addRedisFlags(fs)
	fs.Parse(args)
	if err := requireFlags(fs, "out", "name"); err != nil {
		return err
	}

	s, closeFn, err := rf.store(*prefix)
	if err != nil {
		return err
	}
	defer closeFn()

	var f bloom.Filter
	switch {
	case *rf.bitmap:
		cfg, err := loadConfig(*configPath)
		if err != nil {
			return err
		}
		f, err = s.GetBitmap(*rf.name, cfg.Config)
		if err != nil {
			return err
		}
	case *kind == kindBloom:
		if f, err = s.GetBloom(*rf.name); err != nil {
			return err
		}
	case *kind == kindDynamic:
		if f, err = s.GetDynamic(*rf.name); err != nil {
			return err
		}
	default:
		return fmt.Errorf("filter kind %q can not be pulled", *kind)
	}
	return writeFilter(*outPath, f)
}
