package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/doccheck/internal/completion"
	"github.com/sells-group/doccheck/internal/extract"
	"github.com/sells-group/doccheck/internal/validator"
)

var (
	checkRules     []string
	checkRulesFile string
)

var checkCmd = &cobra.Command{
	Use:   "check <document>",
	Short: "Validate a local document against rules without the HTTP server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if !extract.SupportedExtension(path) {
			return eris.Errorf("check: unsupported file type %q", path)
		}

		rules := append([]string(nil), checkRules...)
		if checkRulesFile != "" {
			data, err := os.ReadFile(checkRulesFile)
			if err != nil {
				return eris.Wrap(err, "check: read rules file")
			}
			rules = append(rules, validator.ParseRules(string(data))...)
		}
		if len(rules) == 0 {
			return eris.New("check: no rules provided (use --rule or --rules-file)")
		}

		client, err := completion.New(cfg.Completion)
		if err != nil {
			return err
		}

		ext, err := extract.New(cfg.Extract)
		if err != nil {
			return err
		}

		text, err := ext.ExtractText(cmd.Context(), path)
		if err != nil {
			return eris.Wrapf(err, "check: extract %s", path)
		}

		zap.L().Info("checking document",
			zap.String("document", path),
			zap.Int("rules", len(rules)),
		)

		verdicts := validator.NewBatch(client).Validate(cmd.Context(), text, rules)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(verdicts)
	},
}

func init() {
	checkCmd.Flags().StringArrayVar(&checkRules, "rule", nil, "rule to check (repeatable)")
	checkCmd.Flags().StringVar(&checkRulesFile, "rules-file", "", "file with one rule per line")
	rootCmd.AddCommand(checkCmd)
}
