// Package printout produces the paginated print artifact: the deck file is
// rasterized through LibreOffice into a PDF with one fixed-size page per
// slide, and optionally into per-page PNG thumbnails via pdftoppm.
package printout

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// PDF converts a .pptx deck to a PDF inside outDir and returns the PDF path.
func PDF(ctx context.Context, deckPath, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %v", err)
	}

	tempDir, err := os.MkdirTemp(outDir, "convert_*")
	if err != nil {
		return "", fmt.Errorf("failed to create conversion dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	cmd := exec.CommandContext(ctx, "libreoffice", "--headless", "--convert-to", "pdf", "--outdir", tempDir, deckPath)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("libreoffice conversion failed: %v (output: %s)", err, string(output))
	}

	pdfName := filepath.Base(deckPath)
	pdfName = pdfName[:len(pdfName)-len(filepath.Ext(pdfName))] + ".pdf"
	produced := filepath.Join(tempDir, pdfName)

	if _, err := os.Stat(produced); os.IsNotExist(err) {
		var foundFiles []string
		if entries, err := os.ReadDir(tempDir); err == nil {
			for _, entry := range entries {
				foundFiles = append(foundFiles, entry.Name())
			}
		}
		return "", fmt.Errorf("pdf file not found after conversion: %v (expected %s, found: %v)", produced, pdfName, foundFiles)
	}

	finalPath := filepath.Join(outDir, pdfName)
	if err := os.Rename(produced, finalPath); err != nil {
		return "", fmt.Errorf("failed to move pdf into place: %v", err)
	}
	return finalPath, nil
}

// Pages rasterizes a PDF into one PNG per page and returns the sorted list.
func Pages(ctx context.Context, pdfPath, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %v", err)
	}

	outputBase := filepath.Join(outputDir, "page")
	cmd := exec.CommandContext(ctx, "pdftoppm", "-png", "-rx", "150", "-ry", "150", pdfPath, outputBase)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pdftoppm conversion failed: %v", err)
	}

	// Rename page-N.png to page-000N.png for stable sorting
	files, err := filepath.Glob(filepath.Join(outputDir, "page-*.png"))
	if err != nil {
		return nil, err
	}

	re := regexp.MustCompile(`page-(\d+)\.png$`)
	for _, f := range files {
		matches := re.FindStringSubmatch(f)
		if len(matches) > 1 {
			num, _ := strconv.Atoi(matches[1])
			newPath := filepath.Join(outputDir, fmt.Sprintf("page-%04d.png", num))
			os.Rename(f, newPath)
		}
	}

	finalFiles, _ := filepath.Glob(filepath.Join(outputDir, "page-*.png"))
	sort.Strings(finalFiles)

	return finalFiles, nil
}
