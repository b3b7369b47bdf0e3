package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/estopassoli/vaal-trade-assistant/pkg/logger"
)

const datasetFileName = "poe2_stats.json"

// datasetCandidates lists the places the matcher dataset may live, in
// priority order. VAAL_TRADE_STATS_PATH points directly at the file,
// VAAL_TRADE_DATA_DIR at a folder containing it.
func datasetCandidates(explicit string) []string {
	var candidates []string
	if explicit != "" {
		candidates = append(candidates, explicit)
	}
	if p := os.Getenv("VAAL_TRADE_STATS_PATH"); p != "" {
		candidates = append(candidates, p)
	}
	if dir := os.Getenv("VAAL_TRADE_DATA_DIR"); dir != "" {
		candidates = append(candidates, filepath.Join(dir, datasetFileName))
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(configDir, "vaal-trade-assistant", datasetFileName))
	}
	return candidates
}

// LoadDataset reads the raw matcher dataset from the first candidate
// path that exists.
func LoadDataset(explicitPath string, log *logger.Logger) (RawDataset, error) {
	var lastErr error
	for _, candidate := range datasetCandidates(explicitPath) {
		data, err := os.ReadFile(candidate)
		if err != nil {
			lastErr = err
			continue
		}

		var raw RawDataset
		if err := json.Unmarshal(data, &raw); err != nil {
			log.Error("Failed to parse stat dataset", err, "path", candidate)
			return nil, fmt.Errorf("failed to parse stat dataset %s: %w", candidate, err)
		}

		log.Info("Loaded stat dataset",
			"path", candidate,
			"suffix_keys", len(raw),
			"size_bytes", len(data))
		return raw, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("no stat dataset found: %w", lastErr)
	}
	return nil, fmt.Errorf("no stat dataset candidates to try")
}

// LoadIndex loads the dataset and builds the lookup index in one step.
func LoadIndex(explicitPath string, log *logger.Logger) (*Index, error) {
	raw, err := LoadDataset(explicitPath, log)
	if err != nil {
		return nil, err
	}
	return BuildIndex(raw, log), nil
}
