package pdf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"evokcrm/internal/models"
)

// Generator is the report-generation boundary (mockable in tests).
type Generator interface {
	WritePipelineReport(w io.Writer, data PipelineData) error
	GeneratePipelineReport(data PipelineData) (string, error)
}

// PipelineData is everything a pipeline summary page needs.
type PipelineData struct {
	GeneratedAt time.Time
	Ribbon      models.Ribbon
	ByStatus    []models.StatusCount
	ByDistrict  []models.DistrictCount
	Filename    string // file name only; generated when empty
}

// ReportGenerator renders pipeline summary PDFs.
type ReportGenerator struct {
	RootDir string // report storage root, e.g. "./files"
}

func NewReportGenerator(rootDir string) *ReportGenerator {
	return &ReportGenerator{RootDir: filepath.Clean(rootDir)}
}

// WritePipelineReport streams the summary PDF to w.
func (g *ReportGenerator) WritePipelineReport(w io.Writer, data PipelineData) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Lead Pipeline Report", false)
	pdf.SetAuthor("EVOK CRM", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// ===== Header
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "LEAD PIPELINE REPORT", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, data.GeneratedAt.Format("02.01.2006 15:04"), "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	// ===== Summary tiles
	g.sectionTitle(pdf, "Summary")
	g.kvLine(pdf, "Total leads", fmt.Sprintf("%d", data.Ribbon.Total))
	g.kvLine(pdf, "Pending", fmt.Sprintf("%d", data.Ribbon.Pending))
	g.kvLine(pdf, "Meetings", fmt.Sprintf("%d", data.Ribbon.Meetings))
	g.kvLine(pdf, "Negotiating", fmt.Sprintf("%d", data.Ribbon.Negotiating))
	g.kvLine(pdf, "Won", fmt.Sprintf("%d", data.Ribbon.Won))
	g.kvLine(pdf, "Lost", fmt.Sprintf("%d", data.Ribbon.Lost))
	pdf.Ln(2)
	g.hr(pdf)

	// ===== Status breakdown
	g.sectionTitle(pdf, "Leads by Status")
	for _, row := range data.ByStatus {
		g.kvLine(pdf, string(row.Status), fmt.Sprintf("%d  (%d%%)", row.Count, row.Percentage))
	}
	pdf.Ln(2)
	g.hr(pdf)

	// ===== District breakdown
	if len(data.ByDistrict) > 0 {
		g.sectionTitle(pdf, "Top Districts")
		for _, row := range data.ByDistrict {
			g.kvLine(pdf, string(row.District), fmt.Sprintf("%d  (%d%%)", row.Count, row.Percentage))
		}
		pdf.Ln(2)
		g.hr(pdf)
	}

	// ===== Page numbers
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Page %d/{nb}", pdf.PageNo()),
			"", 0, "C", false, 0, "",
		)
	})

	return pdf.Output(w)
}

// GeneratePipelineReport writes the summary into RootDir and returns the
// served path.
func (g *ReportGenerator) GeneratePipelineReport(data PipelineData) (string, error) {
	filename := data.Filename
	if filename == "" {
		filename = fmt.Sprintf("pipeline_%s.pdf", data.GeneratedAt.Format("20060102_150405"))
	}
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}
	f, err := os.Create(absPath)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := g.WritePipelineReport(f, data); err != nil {
		return "", err
	}
	return "/" + filepath.ToSlash(filepath.Base(absPath)), nil
}

// ===== helpers =====

func (g *ReportGenerator) ensureTarget(filename string) (string, error) {
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("create files dir: %w", err)
	}
	filename = filepath.Base(filename)
	return filepath.Join(g.RootDir, filename), nil
}

func (g *ReportGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
}

func (g *ReportGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(60, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}
