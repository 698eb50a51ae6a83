package main

import (
	"fmt"

	"github.com/matsen/citemap/internal/pdftext"
	"github.com/spf13/cobra"
)

var (
	pdfTextPages int
	pdfTextRaw   bool
)

var pdfCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Extract text and identifiers from paper PDFs",
}

var pdfTextCmd = &cobra.Command{
	Use:   "text <file>",
	Short: "Extract plain text from a PDF",
	Long: `Extract plain text from a PDF file.

Output is normalized for reading: space runs collapsed, line edges
trimmed, and blank-line runs reduced to paragraph breaks. Use --raw
to skip normalization.

Examples:
  citemap pdf text paper.pdf
  citemap pdf text paper.pdf --pages 2 --raw`,
	Args: cobra.ExactArgs(1),
	RunE: runPDFText,
}

var pdfDOICmd = &cobra.Command{
	Use:   "doi <file>",
	Short: "Extract the DOI from a PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runPDFDOI,
}

func init() {
	pdfCmd.AddCommand(pdfTextCmd)
	pdfCmd.AddCommand(pdfDOICmd)
	pdfTextCmd.Flags().IntVar(&pdfTextPages, "pages", 0, "Maximum pages to extract (0 = all)")
	pdfTextCmd.Flags().BoolVar(&pdfTextRaw, "raw", false, "Skip whitespace normalization")
	rootCmd.AddCommand(pdfCmd)
}

// PDFTextResult is the JSON output for the pdf text command.
type PDFTextResult struct {
	File string `json:"file"`
	Text string `json:"text"`
}

// PDFDOIResult is the JSON output for the pdf doi command.
type PDFDOIResult struct {
	File string `json:"file"`
	DOI  string `json:"doi,omitempty"`
}

func runPDFText(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	text, err := pdftext.ExtractText(filePath, pdfTextPages)
	if err != nil {
		exitWithError(ExitDataError, "extracting text from %s: %v", filePath, err)
	}
	if !pdfTextRaw {
		text = pdftext.NormalizeText(text)
	}

	if humanOutput {
		fmt.Println(text)
	} else {
		outputJSON(PDFTextResult{File: filePath, Text: text})
	}

	return nil
}

func runPDFDOI(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	doi, err := pdftext.ExtractDOI(filePath)
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", filePath, err)
	}
	if doi == "" {
		exitWithError(ExitNoMatch, "no DOI found in %s", filePath)
	}

	if humanOutput {
		fmt.Println(doi)
	} else {
		outputJSON(PDFDOIResult{File: filePath, DOI: doi})
	}

	return nil
}
