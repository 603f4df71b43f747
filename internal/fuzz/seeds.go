package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB — ограничение для тестового корпуса
)

// validSeeds parse and lower cleanly.
var validSeeds = []string{
	"",
	"-a-|",
	"-a-b-c->",
	"--a--*",
	"-+---|\n  +-1--|",
	"x-a-b-|\n[ map ]\ny-c-|",
	"[ flatMap(x) ]",
	"\n-a-|\n\n-b-|\n",
	"+-+-|\n  +-1-|\r\n",
	"\ufeff-a-|",
}

// errorSeeds must fail with a SyntaxError.
var errorSeeds = []string{
	"[ flatMap(x => x) ]",
	"[]",
	"[ unclosed",
	"-a-%",
	"-a- b-|",
	"-a-|  ",
	"  [ map ]",
	"-é-|",
	"   ",
	"-|\n   \n-|",
	"          \n\n\n-|",
}

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	for _, group := range [][]string{validSeeds, errorSeeds} {
		for _, s := range group {
			f.Add([]byte(s))
		}
	}
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.txt файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() || filepath.Ext(path) != ".txt" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
