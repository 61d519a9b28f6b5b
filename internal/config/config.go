package config

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultVMRunPath is where VMware Fusion installs vmrun.
const DefaultVMRunPath = "/Applications/VMware Fusion.app/Contents/Library/vmrun"

// DefaultLeaseFile is the DHCP lease store of the NAT network (vmnet8).
const DefaultLeaseFile = "/var/db/vmware/vmnet-dhcpd-vmnet8.leases"

// Config holds all fusionctl configuration.
type Config struct {
	// VMRunCmd is the path to the vmrun binary.
	VMRunCmd string `mapstructure:"vmrun_cmd" yaml:"vmrun_cmd"`

	// VMDir is the directory holding the .vmwarevm bundles.
	VMDir string `mapstructure:"vm_dir" yaml:"vm_dir"`

	// LeaseFile is the DHCP lease store used to look up guest addresses.
	LeaseFile string `mapstructure:"lease_file" yaml:"lease_file"`

	// MetadataDB is the SQLite database recording clone metadata.
	MetadataDB string `mapstructure:"metadata_db" yaml:"metadata_db"`

	// LogLevel is one of critical, error, warning, info or debug.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// LogFormat is one of plain, logfmt or json.
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	paths, err := GetPaths()
	if err != nil {
		paths = &Paths{
			DataDir: "/tmp/fusionctl",
			VMDir:   "/tmp/fusionctl/vms",
		}
	}

	vmrun := DefaultVMRunPath
	if p, err := exec.LookPath("vmrun"); err == nil {
		vmrun = p
	}

	return &Config{
		VMRunCmd:   vmrun,
		VMDir:      paths.VMDir,
		LeaseFile:  DefaultLeaseFile,
		MetadataDB: filepath.Join(paths.DataDir, "metadata.db"),
		LogLevel:   "warning",
		LogFormat:  "plain",
	}
}

// flagKeys maps command line flags to the configuration keys they override.
var flagKeys = map[string]string{
	"vmrun":      "vmrun_cmd",
	"vm-dir":     "vm_dir",
	"log-level":  "log_level",
	"log-format": "log_format",
}

// Global holds the loaded configuration.
var Global *Config

var v = viper.New()

// Load reads configuration from defaults, the config file, environment
// variables and, when flags is not nil, the flags the user set. Later
// sources win.
func Load(flags *pflag.FlagSet) error {
	paths, err := GetPaths()
	if err != nil {
		return fmt.Errorf("failed to determine paths: %w", err)
	}

	v = viper.New()

	defaults := DefaultConfig()
	v.SetDefault("vmrun_cmd", defaults.VMRunCmd)
	v.SetDefault("vm_dir", defaults.VMDir)
	v.SetDefault("lease_file", defaults.LeaseFile)
	v.SetDefault("metadata_db", defaults.MetadataDB)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_format", defaults.LogFormat)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(paths.DataDir)
	v.AddConfigPath(paths.ConfigDir)

	// FUSIONCTL_VM_DIR, FUSIONCTL_VMRUN_CMD, etc.
	v.SetEnvPrefix("FUSIONCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.VMDir = expandHome(cfg.VMDir)
	cfg.MetadataDB = expandHome(cfg.MetadataDB)
	cfg.LeaseFile = expandHome(cfg.LeaseFile)

	Global = cfg
	return nil
}

// ConfigFileUsed returns the path of the config file being used, if any.
func ConfigFileUsed() string {
	return v.ConfigFileUsed()
}
