package testdata

import (
	_ "embed"
	"encoding/json"

	"git.lost.host/meutraa/eote/internal/game"
)

//go:embed chart.json
var data []byte

// Raw returns the sample chart as stored on disk.
func Raw() []byte {
	out := make([]byte, len(data))
	copy(out, data)
	return out
}

func GetChart() (*game.Chart, error) {
	var chart game.Chart
	if err := json.Unmarshal(data, &chart); nil != err {
		return nil, err
	}
	return &chart, nil
}
