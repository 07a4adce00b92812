// Package report renders a patient record plus a finished analysis into a
// plain-text report and a paginated PDF document. Both renderers are pure
// functions of their inputs apart from the report date.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/AnesSym/medical-test/pkg"
)

// Disclaimer closes every rendered report.
const Disclaimer = "NOTICE: This report includes AI-assisted analysis and should be reviewed by a licensed medical professional."

const textTemplate = `
MEDICAL REPORT
Date of Report: %s
=======================================================

PATIENT INFORMATION (Status Praesens)
-----------------------------------
Name: %s
Date of Visit: %s
Gender: %s
Age: %d years
Height: %.1f cm
Weight: %.1f kg

VITAL SIGNS (Signa Vitalia)
--------------------------
Temperature: %.1f°C
Blood Pressure: %s mmHg
Heart Rate: %d bpm
O₂ Saturation: %d%%

MEDICAL HISTORY (Anamnesis)
-------------------------
Known Conditions (Status Morbi):
%s

Current Medications (Medicatio Actualis):
%s

Allergies (Allergiae):
%s

CURRENT SYMPTOMS (Symptomata)
---------------------------
%s

ANALYSIS AND ASSESSMENT
---------------------
%s

-------------------
%s
Generated via Medical Assistant System
`

// RenderText produces the plain-text report with the fixed section order:
// title/date, patient info, vitals, history, symptoms, analysis,
// disclaimer.
func RenderText(rec pkg.PatientRecord, analysis string) string {
	return fmt.Sprintf(textTemplate,
		time.Now().Format("02/01/2006"),
		rec.Name,
		rec.VisitDate,
		rec.Gender,
		rec.Age,
		rec.Height,
		rec.Weight,
		rec.Temperature,
		rec.BloodPressure(),
		rec.HeartRate,
		rec.OxygenSaturation,
		orNone(strings.Join(rec.Conditions, ", ")),
		orNone(rec.Medications),
		orNone(rec.Allergies),
		rec.Symptoms,
		analysis,
		Disclaimer,
	)
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "None reported"
	}
	return s
}
