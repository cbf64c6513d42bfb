package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Primary operations (mutually exclusive)
	verifyPath   string
	infoPath     string
	metadataPath string

	// Field selection
	keyfilePath string

	// Locator
	globPattern string
	noIgnore    bool

	// Output
	noColor         bool
	outputFile      string
	copyToClipboard bool
	pdfOutputFile   string
)

// version is the application version, set via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "fitsaudit",
	Short: "fitsaudit validates FITS files and extracts header metadata.",
	Long: `fitsaudit walks a directory tree of FITS observation files (plain or
gzip-compressed), checks their structural integrity, and extracts a
configurable set of header fields for archive ingest auditing.`,
	Version: version,
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		mode, root := selectedOperation()
		if mode == "" {
			// No operation requested: print usage, exit 0.
			_ = cmd.Help()
			return
		}
		os.Exit(runAudit(mode, root))
	},
}

// selectedOperation returns the requested mode and its path argument.
// Mutual exclusion is enforced by cobra before Run is reached.
func selectedOperation() (string, string) {
	switch {
	case verifyPath != "":
		return "verify", verifyPath
	case infoPath != "":
		return "info", infoPath
	case metadataPath != "":
		return "metadata", metadataPath
	}
	return "", ""
}

func runAudit(mode, root string) int {
	dest := outputDest{
		FilePath:  outputFile,
		Clipboard: copyToClipboard,
		PDFPath:   pdfOutputFile,
	}
	if noColor || dest.redirected() {
		color.NoColor = true
	}

	// The FieldSpec is loaded once, before any file is touched, so a bad
	// keyfile fails fast as a usage error.
	spec, err := loadFieldSpec(keyfilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	files, err := locateFITSFiles(root, locateOptions{Glob: globPattern, NoIgnore: noIgnore})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	switch mode {
	case "verify":
		return runVerify(files, dest)
	case "info":
		return runInfo(files, dest)
	case "metadata":
		return runMetadata(files, spec, dest)
	}
	return 2
}

// runVerify classifies every candidate file and reports the results. Exit
// status is zero only when every scanned file is valid; an empty scan
// passes.
func runVerify(files []string, dest outputDest) int {
	records := make([]FileRecord, 0, len(files))
	for _, path := range files {
		records = append(records, validateFile(path))
	}
	summary := summarize(records)

	report := renderVerifyReport(records, summary)
	if err := emitReport(report, dest); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if summary.Invalid > 0 {
		return 1
	}
	return 0
}

// runInfo prints the structural view of every candidate file.
func runInfo(files []string, dest outputDest) int {
	var b strings.Builder
	for _, path := range files {
		b.WriteString(renderInspection(inspectFile(path)))
	}
	if err := emitReport(b.String(), dest); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// runMetadata extracts the FieldSpec values from every valid file, one
// structured record per file. Files that fail validation are skipped and
// noted on stderr; they never abort the run.
func runMetadata(files []string, spec FieldSpec, dest outputDest) int {
	var records []MetadataRecord
	for _, path := range files {
		rec, hdr := probeFile(path)
		if !rec.Valid {
			fmt.Fprintf(os.Stderr, "Skipping invalid file %s: %s\n", rec.Path, rec.ErrorMessage)
			continue
		}
		records = append(records, extractMetadata(rec.Path, hdr, spec))
	}

	report, err := renderMetadataReport(records)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := emitReport(report, dest); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func init() {
	cobra.OnInitialize(initConfig)

	// Primary operations
	rootCmd.Flags().StringVar(&verifyPath, "verify", "", "Verify the FITS files under the given path")
	rootCmd.Flags().StringVar(&infoPath, "info", "", "Show HDU structure and header cards for the FITS files under the given path")
	rootCmd.Flags().StringVar(&metadataPath, "metadata", "", "Extract header metadata from the FITS files under the given path")
	rootCmd.MarkFlagsMutuallyExclusive("verify", "info", "metadata")

	// Field selection
	rootCmd.Flags().StringVarP(&keyfilePath, "keyfile", "k", "", "Path to a keyfile listing the header fields to extract (one per line, # comments)")
	viper.BindPFlag("keyfile", rootCmd.Flags().Lookup("keyfile"))

	// Locator
	rootCmd.Flags().StringVar(&globPattern, "glob", "", `Locate files by recursive glob instead of walking the path (e.g. "/data/**/*.fits")`)
	viper.BindPFlag("glob", rootCmd.Flags().Lookup("glob"))
	rootCmd.Flags().BoolVar(&noIgnore, "no-ignore", false, "Don't respect a .fitsignore file at the scan root")
	viper.BindPFlag("no_ignore", rootCmd.Flags().Lookup("no-ignore"))

	// Output
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored status output")
	viper.BindPFlag("no_color", rootCmd.Flags().Lookup("no-color"))
	rootCmd.Flags().StringVarP(&outputFile, "file", "f", "", "Save the report to the specified file")
	viper.BindPFlag("file", rootCmd.Flags().Lookup("file"))
	rootCmd.Flags().BoolVarP(&copyToClipboard, "clipboard", "c", false, "Copy the report to the clipboard")
	viper.BindPFlag("clipboard", rootCmd.Flags().Lookup("clipboard"))
	rootCmd.Flags().StringVar(&pdfOutputFile, "pdf", "", "Save the report as a PDF")
	viper.BindPFlag("pdf", rootCmd.Flags().Lookup("pdf"))

	viper.SetDefault("keyfile", "")
	viper.SetDefault("glob", "")
	viper.SetDefault("no_ignore", false)
	viper.SetDefault("no_color", false)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)

	viper.AddConfigPath(filepath.Join(home, ".config", "fitsaudit"))
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("FITSAUDIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
		}
	}

	// Flags win over config; config fills in anything not given on the
	// command line.
	if !rootCmd.Flags().Changed("keyfile") {
		keyfilePath = viper.GetString("keyfile")
	}
	if !rootCmd.Flags().Changed("glob") {
		globPattern = viper.GetString("glob")
	}
	if !rootCmd.Flags().Changed("no-ignore") {
		noIgnore = viper.GetBool("no_ignore")
	}
	if !rootCmd.Flags().Changed("no-color") {
		noColor = viper.GetBool("no_color")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}
