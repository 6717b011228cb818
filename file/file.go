package file

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Outputs is where one performance gets written.
type Outputs struct {
	Midi string
	Wav  string
}

func PerformanceOutputs(dir, id string) Outputs {
	return Outputs{
		Midi: filepath.Join(dir, id+".mid"),
		Wav:  filepath.Join(dir, id+".wav"),
	}
}

// CreateIdMap names each input by its base name without extension.
// Duplicate names get a numeric suffix.
func CreateIdMap(paths []string) map[string]string {
	res := make(map[string]string)
	for _, p := range paths {
		base := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		id := base
		for i := 2; ; i++ {
			if _, taken := res[id]; !taken {
				break
			}
			id = fmt.Sprintf("%v-%v", base, i)
		}
		res[id] = p
	}
	return res
}
