package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kartoza/mof-predictor/internal/history"
	"github.com/kartoza/mof-predictor/internal/models"
	"github.com/kartoza/mof-predictor/internal/predictor"
	"github.com/kartoza/mof-predictor/internal/upload"
	"github.com/spf13/cobra"
)

var (
	predictFile string
	predictH    int
	predictK    int
	predictL    int
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Run a prediction for a local CIF file and print the JSON result",
	Example: `  mofpredict predict --file MOF-5.cif -H 1 -K 0 -L 0
  mofpredict predict --file ZIF-8.cif -H 1 -K -1 -L 0 --history-db history.db`,
	Args: cobra.NoArgs,
	RunE: runPredict,
}

func init() {
	f := predictCmd.Flags()
	f.StringVarP(&predictFile, "file", "f", "", "CIF structure file")
	f.IntVarP(&predictH, "miller-h", "H", 0, "Miller index h")
	f.IntVarP(&predictK, "miller-k", "K", 0, "Miller index k")
	f.IntVarP(&predictL, "miller-l", "L", 0, "Miller index l")
	predictCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	uploads, err := upload.NewStore(cfg.TempDir)
	if err != nil {
		return err
	}

	var recorder predictor.Recorder
	if cfg.HistoryDB != "" {
		store, err := history.Open(cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer store.Close()
		recorder = store
	}

	f, err := os.Open(predictFile)
	if err != nil {
		return fmt.Errorf("cannot open structure file: %w", err)
	}
	defer f.Close()

	miller := models.MillerIndices{H: predictH, K: predictK, L: predictL}
	res := predictor.NewMockService(uploads, recorder).Predict(filepath.Base(predictFile), f, miller)
	if !res.OK() {
		return fmt.Errorf("%s (status %d)", res.Message, res.Status)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res.Response)
}
