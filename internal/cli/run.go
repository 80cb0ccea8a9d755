package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"

	"github.com/hpctools/ldf/internal/config"
	"github.com/hpctools/ldf/internal/logging"
	"github.com/hpctools/ldf/internal/render"
	"github.com/hpctools/ldf/pkg/cols"
	"github.com/hpctools/ldf/pkg/filter"
	"github.com/hpctools/ldf/pkg/lustre"
	"github.com/hpctools/ldf/pkg/mount"
	"github.com/hpctools/ldf/pkg/sorting"
	"github.com/hpctools/ldf/pkg/units"
)

// run executes the whole listing pipeline: read mounts, integrate
// Lustre components, restrict to the default view or a path, sort,
// filter, render.
func run(ctx context.Context, path string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.LogLevel, flagVerbose)

	if flagListCols {
		printColumnList(os.Stdout)
		return nil
	}

	colSet, err := cols.Parse(cfg.Cols)
	if err != nil {
		return err
	}
	srt, err := sorting.Parse(cfg.Sort)
	if err != nil {
		return err
	}
	fl, err := filter.Parse(flagFilter)
	if err != nil {
		return err
	}
	u, err := units.Parse(cfg.Units)
	if err != nil {
		return err
	}

	mounts, err := mount.Read(ctx, mount.Options{RemoteStats: cfg.RemoteStats})
	if err != nil {
		return err
	}

	var discoverer *lustre.Discoverer
	if lustre.Available() {
		// server-side OST/MDT backing mounts are replaced by the
		// component pseudo-mounts built from lfs
		mounts = dropLustreServerComponents(mounts)
		discoverer = lustre.NewDiscoverer()
		discovered, err := discoverer.Discover(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("lustre discovery failed")
		} else {
			mounts = lustre.Merge(mounts, discovered)
		}
	}
	hasLustre := false
	for _, m := range mounts {
		if m.FSType == "lustre" {
			hasLustre = true
			break
		}
	}

	// With Lustre present the default view focuses on it; everything
	// else keeps the usual normal-mount filtering.
	lustreView := false
	if !cfg.All {
		if hasLustre {
			mounts = keep(mounts, func(m *mount.Mount) bool { return m.FSType == "lustre" })
			lustreView = true
		} else {
			mounts = keep(mounts, (*mount.Mount).IsNormal)
		}
	}
	if lustreView && colSet.IsDefault() {
		colSet = cols.LustreDefaults()
	}

	if path != "" {
		mounts, err = restrictToPath(ctx, mounts, path, discoverer)
		if err != nil {
			return err
		}
	}

	if lustreView && cfg.Sort == "" {
		// components read best grouped: client summary, MDTs, OSTs
		sort.SliceStable(mounts, func(i, j int) bool { return lustre.Less(mounts[i], mounts[j]) })
	} else {
		srt.Apply(mounts)
	}

	mounts = fl.Apply(mounts)

	format := render.FormatTable
	switch {
	case flagJSON:
		format = render.FormatJSON
	case flagCSV:
		format = render.FormatCSV
	}
	if format == render.FormatTable && len(mounts) == 0 {
		fmt.Println("no mount to display - try\n    ldf -a")
		return nil
	}

	opts := render.Options{
		Cols:       colSet,
		Units:      u,
		InodesMode: flagInodes,
		Color:      resolveColor(cfg.Color),
		ASCII:      cfg.ASCII,
		LustreView: lustreView,
	}
	if cfg.CSVSeparator != "" {
		opts.CSVSeparator = []rune(cfg.CSVSeparator)[0]
	}
	printer, err := render.New(format, opts)
	if err != nil {
		return err
	}
	return printer.Print(os.Stdout, mounts)
}

func keep(mounts []*mount.Mount, pred func(*mount.Mount) bool) []*mount.Mount {
	out := mounts[:0]
	for _, m := range mounts {
		if pred(m) {
			out = append(out, m)
		}
	}
	return out
}

func dropLustreServerComponents(mounts []*mount.Mount) []*mount.Mount {
	return keep(mounts, func(m *mount.Mount) bool {
		return m.FSType != "lustre" || !lustre.IsServerComponentPath(m.MountPoint)
	})
}

// restrictToPath keeps only the mounts of the filesystem holding
// path. Lustre paths match by mount point prefix since Lustre mounts
// carry no real device ids.
func restrictToPath(ctx context.Context, mounts []*mount.Mount, path string, d *lustre.Discoverer) ([]*mount.Mount, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("can't read %s: %w", path, err)
	}

	if d != nil && d.IsPath(ctx, abs) {
		return keep(mounts, func(m *mount.Mount) bool {
			return m.FSType == "lustre" && strings.HasPrefix(abs, strings.TrimSuffix(m.MountPoint, "/"))
		}), nil
	}

	dev, err := mount.DeviceOf(abs)
	if err != nil {
		return nil, err
	}
	return keep(mounts, func(m *mount.Mount) bool { return m.Dev == dev }), nil
}

// resolveColor maps the --color setting to a decision, using tty
// detection in auto mode.
func resolveColor(setting string) bool {
	switch setting {
	case "yes":
		return true
	case "no":
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
