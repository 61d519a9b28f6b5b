package vm

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// ConfFile resolves the VM's single .vmx file. Bundles that picked up
// stray .vmx files are accepted as long as <name>.vmx is among them.
func (v *VM) ConfFile() Response[string] {
	bundle := v.BundlePath()
	pattern := filepath.Join(bundle, "*"+ConfExt)

	matches, err := afero.Glob(v.env.Fs, pattern)
	if err != nil {
		return Failure[string](1, fmt.Sprintf("Unable to search for config files of VM '%s' (in '%s'): %v", v.name, pattern, err))
	}

	switch len(matches) {
	case 0:
		return Failure[string](1, fmt.Sprintf("Unable to find a config file for VM '%s' (in '%s')", v.name, pattern))
	case 1:
		return Success(matches[0])
	}

	preferred := filepath.Join(bundle, v.name+ConfExt)
	for _, m := range matches {
		if m == preferred {
			return Success(preferred)
		}
	}

	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = filepath.Base(m)
	}
	sort.Strings(names)
	for i, n := range names {
		names[i] = "'" + n + "'"
	}

	return Failure[string](1, fmt.Sprintf("Multiple config files found for VM '%s' (%s in '%s')",
		v.name, strings.Join(names, ", "), bundle))
}
