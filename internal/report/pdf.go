package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"

	"github.com/AnesSym/medical-test/pkg"
)

const (
	pageMargin = 0.75 // cm
	labelWidth = 5.0
	valueWidth = 15.0
	rowHeight  = 0.7
	lineHeight = 0.55
)

// RenderPDF lays out the paginated report: title, report date, patient
// info table, vitals table, history, symptoms, analysis, disclaimer.  The
// analysis text is first stripped of everything before the diagnoses
// marker (kept whole when the marker is absent) and its bold/line-break
// conventions converted for the document writer.
func RenderPDF(rec pkg.PatientRecord, analysis string) ([]byte, error) {
	pdf := fpdf.New("P", "cm", "Letter", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Title and report date
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 1.0, "MEDICAL REPORT", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 0.6, "Date of Report: "+time.Now().Format("02/01/2006"), "", 1, "L", false, 0, "")
	pdf.Ln(0.3)

	heading(pdf, "PATIENT INFORMATION (Status Praesens)")
	table(pdf, tr, [][2]string{
		{"Name:", rec.Name},
		{"Date of Visit:", rec.VisitDate},
		{"Gender:", rec.Gender},
		{"Age:", fmt.Sprintf("%d", rec.Age)},
		{"Height:", fmt.Sprintf("%.1f cm", rec.Height)},
		{"Weight:", fmt.Sprintf("%.1f kg", rec.Weight)},
	})

	heading(pdf, "VITAL SIGNS (Signa Vitalia)")
	table(pdf, tr, [][2]string{
		{"Temperature:", fmt.Sprintf("%.1f °C", rec.Temperature)},
		{"Blood Pressure:", rec.BloodPressure()},
		{"Heart Rate:", fmt.Sprintf("%d bpm", rec.HeartRate)},
		{"O2 Saturation:", fmt.Sprintf("%d %%", rec.OxygenSaturation)},
	})

	heading(pdf, "MEDICAL HISTORY (Anamnesis)")
	history := fmt.Sprintf(
		"<b>Known Conditions (Status Morbi):</b> %s<br><b>Current Medications (Medicatio Actualis):</b> %s<br><b>Allergies (Allergiae):</b> %s",
		orNone(strings.Join(rec.Conditions, ", ")),
		orNone(rec.Medications),
		orNone(rec.Allergies),
	)
	writeHTML(pdf, tr(history))
	pdf.Ln(0.5)

	heading(pdf, "CURRENT SYMPTOMS (Symptomata)")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, lineHeight, tr(rec.Symptoms), "", "L", false)
	pdf.Ln(0.5)

	heading(pdf, "ANALYSIS AND ASSESSMENT")
	cleaned := StripBeforeMarker(analysis, DiagnosesMarker)
	writeHTML(pdf, tr(ToInlineHTML(cleaned)))
	pdf.Ln(0.5)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 0.5, Disclaimer, "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "build pdf")
	}
	return buf.Bytes(), nil
}

func heading(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 0.8, title, "", 1, "L", false, 0, "")
}

func table(pdf *fpdf.Fpdf, tr func(string) string, rows [][2]string) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetDrawColor(128, 128, 128)
	for _, row := range rows {
		pdf.CellFormat(labelWidth, rowHeight, tr(row[0]), "1", 0, "L", false, 0, "")
		pdf.CellFormat(valueWidth, rowHeight, tr(row[1]), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(0.4)
}

func writeHTML(pdf *fpdf.Fpdf, htmlStr string) {
	pdf.SetFont("Helvetica", "", 10)
	html := pdf.HTMLBasicNew()
	html.Write(lineHeight, htmlStr)
	pdf.Ln(lineHeight)
}
