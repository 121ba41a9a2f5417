// Command stp batch-processes the stable pose (.stp) files in a directory.
//
// Each file is parsed and rewritten keeping only the poses whose probability
// meets the -min-prob threshold. The retained poses can additionally be
// indexed into a SQLite catalog (-db) and rendered as probability charts
// (-plots).
//
// Usage:
//
//	stp [flags] DIR
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/banshee-data/stablepose/internal/fsutil"
	"github.com/banshee-data/stablepose/internal/posedb"
	"github.com/banshee-data/stablepose/internal/poseplot"
	"github.com/banshee-data/stablepose/internal/stp"
	"github.com/banshee-data/stablepose/internal/version"
)

var (
	minProb     = flag.Float64("min-prob", 0, "Minimum probability for a pose to be kept")
	dbPath      = flag.String("db", "", "Index processed files into the catalog database at this path")
	plotDir     = flag.String("plots", "", "Write a probability chart per file into this directory")
	dryRun      = flag.Bool("dry-run", false, "Parse and report without writing anything")
	showVersion = flag.Bool("version", false, "Print version information and exit")
)

// options carries the per-run settings into processDir so it stays testable
// without touching the global flags.
type options struct {
	minProb float64
	dryRun  bool
	plotDir string
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] DIR\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	dir := flag.Arg(0)

	var catalog *posedb.DB
	if *dbPath != "" {
		var err error
		catalog, err = posedb.NewDB(*dbPath)
		if err != nil {
			log.Fatalf("failed to open catalog: %v", err)
		}
		defer catalog.Close()
	}

	opts := options{minProb: *minProb, dryRun: *dryRun, plotDir: *plotDir}
	processed, failed, err := processDir(fsutil.OSFileSystem{}, dir, catalog, opts)
	if err != nil {
		log.Fatalf("failed to process %s: %v", dir, err)
	}

	log.Printf("processed %d file(s), %d failure(s)", processed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// processDir handles every .stp file directly under dir. A failing file is
// logged and skipped; the counts let the caller decide the exit status.
func processDir(fsys fsutil.FileSystem, dir string, catalog *posedb.DB, opts options) (processed, failed int, err error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return 0, 0, fmt.Errorf("read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != stp.Extension {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err := processFile(fsys, path, catalog, opts); err != nil {
			log.Printf("skipping %s: %v", path, err)
			failed++
			continue
		}
		processed++
	}

	return processed, failed, nil
}

// processFile rewrites one .stp file with the probability filter applied,
// then runs the optional catalog and chart steps on the retained poses.
func processFile(fsys fsutil.FileSystem, path string, catalog *posedb.DB, opts options) error {
	f, err := stp.NewFileFS(fsys, path)
	if err != nil {
		return err
	}

	poses, err := f.Read()
	if err != nil {
		return err
	}

	retained := poses[:0:0]
	for _, sp := range poses {
		if sp.P >= opts.minProb {
			retained = append(retained, sp)
		}
	}

	log.Printf("%s: %d pose(s), %d at or above %g", path, len(poses), len(retained), opts.minProb)
	if opts.dryRun {
		return nil
	}

	if err := f.Write(poses, opts.minProb); err != nil {
		return err
	}

	if catalog != nil {
		set := &posedb.PoseSet{SourcePath: path, MinProbability: opts.minProb}
		if err := catalog.InsertPoseSet(set, retained); err != nil {
			return err
		}
		log.Printf("%s: catalogued as set %s", path, set.SetID)
	}

	if opts.plotDir != "" && len(retained) > 0 {
		if err := fsys.MkdirAll(opts.plotDir, 0755); err != nil {
			return err
		}
		base := strings.TrimSuffix(filepath.Base(path), stp.Extension)
		out := filepath.Join(opts.plotDir, base+".png")
		if err := poseplot.WriteProbabilityChart(retained, base, out); err != nil {
			return err
		}
	}

	return nil
}
