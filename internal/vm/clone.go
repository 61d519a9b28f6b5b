package vm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cybozu-go/log"
	"github.com/javanstorm/fusionctl/internal/metadata"
	"github.com/javanstorm/fusionctl/internal/vmx"
	"github.com/spf13/afero"
)

var (
	// diskFragment matches the tail of a split disk extent, e.g. "-s001.vmdk".
	diskFragment = regexp.MustCompile(`-s\d+\.vmdk`)
	// fragmentMarker is the "-sNNN" part alone.
	fragmentMarker = regexp.MustCompile(`-s\d+`)
)

// Clone copies the bundle of source into a new bundle named target, renames
// the member files after target and rewrites its configuration so the copy
// boots as a distinct machine.
func Clone(ctx context.Context, env *Env, source, target string) Response[struct{}] {
	src := New(env, source)
	dst := New(env, target)

	if !src.Exists() {
		return Failure[struct{}](1, fmt.Sprintf("Unable to find the source VM %s (%s): %v",
			source, src.BundlePath(), ErrNotCreated))
	}
	if ok, _ := afero.Exists(env.Fs, dst.BundlePath()); ok {
		return Failure[struct{}](1, fmt.Sprintf("The target VM %s already exists (%s): %v",
			target, dst.BundlePath(), ErrAlreadyExists))
	}

	fields := map[string]interface{}{
		"source": source,
		"target": target,
	}
	log.Info("cloning vm", fields)

	if err := copyTree(env.Fs, src.BundlePath(), dst.BundlePath()); err != nil {
		discardBundle(env.Fs, dst.BundlePath())
		return Failure[struct{}](1, fmt.Sprintf("copy bundle: %v", err))
	}

	log.Info("configuring cloned vm", fields)

	if err := renameMembers(env.Fs, dst.BundlePath(), source, target); err != nil {
		discardBundle(env.Fs, dst.BundlePath())
		return Failure[struct{}](1, fmt.Sprintf("rename bundle files: %v", err))
	}
	if err := updateConfig(env.Fs, dst.BundlePath(), source, target); err != nil {
		discardBundle(env.Fs, dst.BundlePath())
		return Failure[struct{}](1, fmt.Sprintf("update configuration: %v", err))
	}

	if env.Metadata != nil {
		err := env.Metadata.Record(ctx, metadata.Entry{
			BundlePath: dst.BundlePath(),
			Name:       target,
			ClonedFrom: source,
		})
		if err != nil {
			log.Warn("failed to record clone metadata", map[string]interface{}{
				log.FnError: err,
				"target":    target,
			})
		}
	}

	return Success(struct{}{})
}

// membersToRename returns the bundle entries with names containing from
// first, followed by the rest. Renaming the source-named files first keeps
// the other files from taking their new names.
func membersToRename(fs afero.Fs, dir, from string) ([]string, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, err
	}

	var matching, others []string
	for _, e := range entries {
		if strings.Contains(e.Name(), from) {
			matching = append(matching, e.Name())
		} else {
			others = append(others, e.Name())
		}
	}
	return append(matching, others...), nil
}

// replaceablePart returns the part of a member file name that stands for
// the VM name: the name without extension, or for a split disk extent the
// text before its "-sNNN" marker.
func replaceablePart(name string) (string, error) {
	ext := filepath.Ext(name)
	part := strings.TrimSuffix(name, ext)

	if ext != DiskExt {
		return part, nil
	}
	loc := diskFragment.FindStringIndex(name)
	if loc == nil {
		return part, nil
	}
	if len(fragmentMarker.FindAllStringIndex(name, -1)) > 1 {
		return "", fmt.Errorf("%s: ambiguous disk extent name: %w", name, ErrUnsupportedBundle)
	}
	return name[:loc[0]], nil
}

// discardBundle removes a partially built clone.
func discardBundle(fs afero.Fs, dir string) {
	if err := fs.RemoveAll(dir); err != nil {
		log.Warn("failed to remove incomplete clone", map[string]interface{}{
			log.FnError: err,
			"bundle":    dir,
		})
	}
}

type rename struct {
	from, to string
}

// planRenames works out the new name of every bundle member before any file
// is moved. The replaceable part of a name is swapped for to; the extension
// and any fragment suffix stay as they are. A member whose name is taken by
// then keeps its name, unless it is named after the VM: such a member must
// move, so the collision makes the bundle unsupported.
func planRenames(fs afero.Fs, dir, from, to string) ([]rename, error) {
	names, err := membersToRename(fs, dir, from)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(names))
	for _, name := range names {
		taken[name] = true
	}

	var plan []rename
	for _, name := range names {
		part, err := replaceablePart(name)
		if err != nil {
			return nil, err
		}
		if part == "" {
			continue
		}

		renamed := to + strings.TrimPrefix(name, part)
		if renamed == name {
			continue
		}

		if taken[renamed] {
			if vmx.ContainsName(part, from) {
				return nil, fmt.Errorf("%s and another file would both be named %s: %w",
					name, renamed, ErrUnsupportedBundle)
			}
			log.Debug("not renaming over existing file", map[string]interface{}{
				"file":   name,
				"target": renamed,
			})
			continue
		}

		delete(taken, name)
		taken[renamed] = true
		plan = append(plan, rename{from: name, to: renamed})
	}
	return plan, nil
}

func renameMembers(fs afero.Fs, dir, from, to string) error {
	plan, err := planRenames(fs, dir, from, to)
	if err != nil {
		return err
	}

	for _, r := range plan {
		if err := fs.Rename(filepath.Join(dir, r.from), filepath.Join(dir, r.to)); err != nil {
			return fmt.Errorf("rename %s: %w", r.from, err)
		}
	}
	return nil
}

// updateConfig replaces the source name in the text configuration files of
// the target bundle, then applies the clone rewrite to its .vmx file.
func updateConfig(fs afero.Fs, dir, from, to string) error {
	for _, ext := range []string{ConfExt, ExtConfExt, DiskExt} {
		path := filepath.Join(dir, to+ext)

		data, err := afero.ReadFile(fs, path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if vmx.IsBinary(data) {
			continue
		}

		if err := writeFileAtomic(fs, path, vmx.ReplaceName(data, from, to)); err != nil {
			return err
		}
	}

	conf := filepath.Join(dir, to+ConfExt)
	data, err := afero.ReadFile(fs, conf)
	if err != nil {
		return fmt.Errorf("read %s: %w", conf, err)
	}
	return writeFileAtomic(fs, conf, []byte(vmx.RewriteForClone(string(data))))
}
