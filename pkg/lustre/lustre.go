// Package lustre discovers Lustre filesystems and their MDT/OST
// components through the lfs client utility, and converts them into
// the mount model used by the rest of ldf.
package lustre

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hpctools/ldf/pkg/mount"
)

// Runner executes lfs invocations. It exists so the parsers can be
// exercised against canned transcripts.
type Runner interface {
	Run(ctx context.Context, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, "lfs", args...).Output()
	if err != nil {
		return nil, fmt.Errorf("lfs %s: %w", strings.Join(args, " "), err)
	}
	return out, nil
}

// Available reports whether the lfs utility is present and working.
func Available() bool {
	if _, err := exec.LookPath("lfs"); err != nil {
		return false
	}
	return exec.Command("lfs", "--version").Run() == nil
}

// Discoverer turns lfs output into mounts.
type Discoverer struct {
	run Runner
}

// NewDiscoverer returns a Discoverer backed by the real lfs binary.
func NewDiscoverer() *Discoverer {
	return &Discoverer{run: execRunner{}}
}

// NewDiscovererWithRunner returns a Discoverer backed by a custom runner.
func NewDiscovererWithRunner(r Runner) *Discoverer {
	return &Discoverer{run: r}
}

// Discover returns every Lustre filesystem visible to this client as
// a set of mounts: one pseudo-mount per MDT and OST component, plus
// an aggregated client mount per filesystem. An empty slice means no
// Lustre filesystem is mounted.
func (d *Discoverer) Discover(ctx context.Context) ([]*mount.Mount, error) {
	dfOut, err := d.run.Run(ctx, "df")
	if err != nil {
		// "lfs df" fails when nothing is mounted; not an error for us
		log.Debug().Err(err).Msg("lfs df failed")
		return nil, nil
	}
	mounts, err := parseDF(dfOut)
	if err != nil {
		return nil, fmt.Errorf("parsing lfs df output: %w", err)
	}

	if inodeOut, err := d.run.Run(ctx, "df", "-i"); err == nil {
		if err := mergeInodes(mounts, inodeOut); err != nil {
			log.Warn().Err(err).Msg("ignoring unparsable lfs df -i output")
		}
	}

	version := d.version(ctx)
	for _, m := range mounts {
		m.Lustre.Version = version
		if m.Lustre.ComponentType == ComponentClient {
			d.readStripe(ctx, m)
		}
	}
	return mounts, nil
}

// version returns the Lustre release, e.g. "2.15.5".
func (d *Discoverer) version(ctx context.Context) string {
	out, err := d.run.Run(ctx, "--version")
	if err != nil {
		return ""
	}
	fields := strings.Fields(string(out))
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// readStripe fills the default striping attributes of a client mount
// from "lfs getstripe -d <mountpoint>".
func (d *Discoverer) readStripe(ctx context.Context, m *mount.Mount) {
	out, err := d.run.Run(ctx, "getstripe", "-d", m.MountPoint)
	if err != nil {
		log.Debug().Err(err).Str("mount", m.MountPoint).Msg("lfs getstripe failed")
		return
	}
	parseStripe(out, m.Lustre)
}

// IsPath reports whether path lives on a Lustre filesystem.
func (d *Discoverer) IsPath(ctx context.Context, path string) bool {
	_, err := d.run.Run(ctx, "getname", path)
	return err == nil
}

// IsServerComponentPath recognizes mount points of server-side OST and
// MDT backing filesystems, which the component discovery replaces.
func IsServerComponentPath(mountPoint string) bool {
	p := strings.ToLower(mountPoint)
	if strings.Contains(p, "-ost") || strings.Contains(p, "-mdt") || strings.Contains(p, "-mds") {
		return true
	}
	inLustreTree := strings.Contains(p, "lustre") || strings.Contains(p, "scratch")
	return inLustreTree && (strings.Contains(p, "ost") || strings.Contains(p, "mdt"))
}

// IsComponentMountPoint recognizes the pseudo mount points generated
// for individual components, e.g. "/mnt/lustre[OST:3]".
func IsComponentMountPoint(mountPoint string) bool {
	return strings.Contains(mountPoint, "[MDT:") || strings.Contains(mountPoint, "[OST:")
}

// Merge integrates discovered Lustre mounts into a mount list read
// from the mount table: plain client mounts are replaced by their
// discovered counterparts (which carry aggregated component stats),
// and component pseudo-mounts are appended.
func Merge(mounts []*mount.Mount, discovered []*mount.Mount) []*mount.Mount {
	for _, lm := range discovered {
		if IsComponentMountPoint(lm.MountPoint) {
			mounts = append(mounts, lm)
			continue
		}
		replaced := false
		for i, m := range mounts {
			if m.FSType == "lustre" && m.MountPoint == lm.MountPoint {
				mounts[i] = lm
				replaced = true
				break
			}
		}
		if !replaced {
			mounts = append(mounts, lm)
		}
	}
	return mounts
}
