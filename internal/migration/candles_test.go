package migration

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInstrumentCodeFromFilename(t *testing.T) {
	cases := map[string]string{
		"SH600000.csv":    "SH600000",
		"SZ000001.csv":    "SZ000001",
		"600000_daily.csv": "SH600000",
		"000001_kline.csv": "SZ000001",
		"300750.csv":      "SZ300750",
		"unrecognized.csv": "unrecognized",
	}
	for filename, want := range cases {
		require.Equal(t, want, instrumentCodeFromFilename(filename), filename)
	}
}
