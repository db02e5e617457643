package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/cryptopilot/analysis"
	"github.com/rustyeddy/cryptopilot/market"
)

// loadInputs reads one CSV per symbol from dir, named SYMBOL.csv. For each
// entry of higher (timeframe -> dir) a file with the same name is attached
// as that symbol's higher timeframe when present. Symbols come back sorted.
//
// A file that fails to load is logged and handed on with no bars, so the
// engine skips that symbol like any other short series. A bad higher
// timeframe file is dropped and simply casts no vote.
func loadInputs(log zerolog.Logger, dir, timeframe string, higher map[string]string) ([]analysis.Input, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	inputs := make([]analysis.Input, 0, len(paths))
	for _, p := range paths {
		name := filepath.Base(p)
		in := analysis.Input{
			Symbol:    strings.ToUpper(strings.TrimSuffix(name, filepath.Ext(name))),
			Timeframe: timeframe,
		}
		bars, err := market.LoadCSV(p)
		if err != nil {
			log.Warn().Err(err).Str("symbol", in.Symbol).Msg("bars not loaded")
			inputs = append(inputs, in)
			continue
		}
		in.Bars = bars

		for tf, hdir := range higher {
			hp := filepath.Join(hdir, name)
			if _, err := os.Stat(hp); errors.Is(err, fs.ErrNotExist) {
				continue
			}
			hbars, err := market.LoadCSV(hp)
			if err != nil {
				log.Warn().Err(err).Str("symbol", in.Symbol).Str("timeframe", tf).Msg("higher timeframe not loaded")
				continue
			}
			if in.HigherTimeframes == nil {
				in.HigherTimeframes = map[string]market.Series{}
			}
			in.HigherTimeframes[tf] = hbars
		}
		inputs = append(inputs, in)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no *.csv files in %s", dir)
	}
	return inputs, nil
}
