package region

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type fileTable struct {
	Regions []Entry           `koanf:"regions"`
	Aliases map[string]string `koanf:"aliases"`
}

// LoadTable reads a YAML region table:
//
//	regions:
//	  - name: bali
//	    patterns: [bali, denpasar, kuta]
//	aliases:
//	  dps: bali
func LoadTable(path string) (*Table, error) {
	// Alias keys may contain dots ("d.i. yogyakarta").
	k := koanf.New("/")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrLoadTable, path, err)
	}
	var ft fileTable
	if err := k.UnmarshalWithConf("", &ft, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadTable, path, err)
	}
	if len(ft.Regions) == 0 {
		return nil, fmt.Errorf("%w: %s has no regions", ErrInvalidTable, path)
	}
	return NewTable(ft.Regions, ft.Aliases)
}
