package models

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"github.com/shibukawa/configdir"
	"gopkg.in/yaml.v2"
)

const configFile = "config.yml"

// Config holds the emulation session settings the core reads.
type Config struct {
	Arch   ArchType   `yaml:"arch"`
	Endian Endian     `yaml:"endian"`
	Output OutputMode `yaml:"output"`

	// Verbose and Console keep the raw decoded value. They are validated when
	// the diagnostic sink uses them, so a bad value fails loudly at that point.
	Verbose interface{} `yaml:"verbose"`
	Console interface{} `yaml:"console"`

	MultiThread bool   `yaml:"multithread"`
	LogFile     string `yaml:"log_file"`
	// per-thread log files are created here when MultiThread is set
	LogDir string `yaml:"log_dir"`
	Color  bool   `yaml:"color"`

	Rootfs string            `yaml:"rootfs"`
	FsMap  map[string]string `yaml:"fs_map"`

	// "capstone" (default) or "native"
	Disassembler string `yaml:"disassembler"`
}

func DefaultConfig() *Config {
	return &Config{
		Arch:    ARCH_X8664,
		Endian:  ENDIAN_EL,
		Output:  OUTPUT_DEFAULT,
		Verbose: 1,
		Console: true,
	}
}

func ParseConfig(data []byte) (*Config, error) {
	c := DefaultConfig()
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	return c, nil
}

func LoadConfig(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config")
	}
	return ParseConfig(data)
}

// FindConfig loads config.yml from the first user or system config folder that has one.
// The returned path is empty when no file was found and defaults are used.
func FindConfig() (*Config, string, error) {
	dirs := configdir.New("qiling", "")
	folder := dirs.QueryFolderContainsFile(configFile)
	if folder == nil {
		return DefaultConfig(), "", nil
	}
	data, err := folder.ReadFile(configFile)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to read config")
	}
	c, err := ParseConfig(data)
	return c, folder.Path, err
}

func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
