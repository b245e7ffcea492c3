// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/pdiddy/autosurvey/internal/draft"
	"github.com/pdiddy/autosurvey/internal/outline"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the outline and citations of a survey output directory",
	Long: `Validate reports outline headings that lack a description line and
citation numbers in the rendered surveys that have no reference entry.`,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	dir := stringSetting(cmd, "output-dir", "survey.output_dir")
	problems := 0

	text, err := draft.LoadOutline(dir)
	if err != nil {
		return err
	}
	for _, issue := range outline.Validate(text) {
		fmt.Printf("%s: %s\n", draft.OutlineFile, issue)
		problems++
	}

	pairs, err := citationPairs(dir)
	if err != nil {
		return err
	}
	for _, p := range pairs {
		missing, err := draft.ValidateCitations(dir, p[0], p[1])
		if err != nil {
			return err
		}
		for _, n := range missing {
			fmt.Printf("%s: citation [%d] has no reference entry\n", p[0], n)
			problems++
		}
	}

	if problems > 0 {
		return fmt.Errorf("%d problem(s) found", problems)
	}
	fmt.Println("No problems found.")
	return nil
}

// citationPairs returns the survey and reference file pairs to check. When
// dir holds a manifest only the artifacts it lists are checked, so files left
// over from an earlier run are skipped. Without a manifest every survey file
// present is checked.
func citationPairs(dir string) ([][2]string, error) {
	all := [][2]string{
		{draft.RawWithReferencesFile, draft.ReferencesFile},
		{draft.RefinedFile, draft.RefinedReferencesFile},
	}

	m, err := draft.LoadManifest(dir)
	switch {
	case err == nil:
		var pairs [][2]string
		for _, p := range all {
			if slices.Contains(m.Artifacts, p[0]) {
				pairs = append(pairs, p)
			}
		}
		return pairs, nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, err
	}

	var pairs [][2]string
	for _, p := range all {
		if _, err := os.Stat(filepath.Join(dir, p[0])); err == nil {
			pairs = append(pairs, p)
		}
	}
	return pairs, nil
}

func init() {
	validateCmd.Flags().String("output-dir", "output", "directory holding the survey artifacts")
	rootCmd.AddCommand(validateCmd)
}
