package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/clinicai/clinicai-go/internal/models"
)

// extractionFormatInstructions describes the JSON object the extraction
// model call must produce. It doubles as the contract for DecodeJSON.
const extractionFormatInstructions = `Respond with a single JSON object, no surrounding prose, matching:
{
  "summary": string,
  "patient_info": {
    "name": string, "age": number, "id_number": string,
    "date_of_birth": string, "gender": string, "nationality": string
  },
  "symptoms": [{"name": string, "duration": string, "intensity": string}],
  "reason_for_visit": string
}
Omit fields that are not mentioned in the transcription rather than inventing values.`

// extractionSystemPrompt instructs the five-step reasoning protocol. Only
// the final structured object is consumed; intermediate reasoning is not
// persisted.
const extractionSystemPrompt = `You are a medical information extractor with expertise in clinical documentation.
You will be given the transcription of a conversation between a doctor and a patient.

Follow this chain-of-thought process:

STEP 1 - PATIENT IDENTIFICATION:
- Extract patient name, age, date of birth, nationality, and ID number if mentioned during transcription.
- Ensure age is within reasonable range (0-120)

STEP 2 - REASON FOR VISIT ANALYSIS:
- Identify the primary complaint or reason for seeking medical care.
- Assess urgency level.

STEP 3 - SYMPTOM EXTRACTION:
- Identify all symptoms the patient presented.
- Add the intensity of each symptom based on the patient's speech.
- Note the duration the symptom has persisted.

STEP 4 - CONFIDENCE ASSESSMENT:
- Evaluate completeness of information.
- Assess clarity of medical terminology.
- Consider ambiguity in patient statements.

STEP 5 - GENERATE SUMMARY
- Finalize by generating a summary of the transcription.
- Include the patient's name, age, reason for visit and symptoms.
- Ensure the summary is concise and informative.
- Based in the transcription, you include information that might be relevant for the diagnosis process, such as:
- behavior situations (actions the patient took that could have lead to the symptoms)
- lifestyle (the patient's lifestyle, habits, and routines)
- nutrition (what did the patient report to have eaten)
- hydration (the patient report to getting hydrated)
- sleep (how much sleep is the patient getting)
- or any other relevant information.

Use the following JSON schema for output:
%s

Ensure all extracted data follows medical standards and validation rules.

Examples:

%s`

// extractionExample is one fixed exemplar pair supplied with every
// extraction prompt to stabilize output schema adherence.
type extractionExample struct {
	input  string
	output models.MedicalExtraction
}

var extractionExamples = []extractionExample{
	{
		input: "Patient John Smith, age 45, ID: MS123456, came in complaining of severe chest pain for the past 2 hours and shortness of breath.",
		output: models.MedicalExtraction{
			Summary: "John Smith, a 45-year-old patient, presented with acute severe chest pain of 2 hours duration accompanied by shortness of breath, requiring immediate cardiac evaluation.",
			PatientInfo: models.PatientInfo{
				Name:     "John Smith",
				Age:      45,
				IDNumber: "MS123456",
			},
			Symptoms: []models.Symptom{
				{Name: "chest pain", Duration: "2 hours", Intensity: "severe"},
				{Name: "shortness of breath", Duration: "2 hours", Intensity: "moderate"},
			},
			ReasonForVisit: "Acute onset of severe chest pain with associated shortness of breath requiring immediate cardiac evaluation",
		},
	},
	{
		input: "Maria Garcia, 67 years old, patient ID 87654321, experiencing mild headache for 3 days and occasional dizziness.",
		output: models.MedicalExtraction{
			Summary: "Maria Garcia, a 67-year-old patient, reported a mild headache persisting for 3 days with occasional episodes of dizziness.",
			PatientInfo: models.PatientInfo{
				Name:     "Maria Garcia",
				Age:      67,
				IDNumber: "87654321",
			},
			Symptoms: []models.Symptom{
				{Name: "headache", Duration: "3 days", Intensity: "mild"},
				{Name: "dizziness", Duration: "intermittent", Intensity: "mild"},
			},
			ReasonForVisit: "Evaluation of persistent mild headache with associated dizziness in elderly patient",
		},
	},
}

func buildExtractionSystemPrompt() string {
	var sb strings.Builder
	for i, ex := range extractionExamples {
		out, _ := json.Marshal(ex.output)
		fmt.Fprintf(&sb, "Input: %s\nOutput: %s", ex.input, out)
		if i < len(extractionExamples)-1 {
			sb.WriteString("\n\n")
		}
	}
	return fmt.Sprintf(extractionSystemPrompt, extractionFormatInstructions, sb.String())
}

func buildExtractionUserPrompt(transcriptionText string) string {
	return "Extract medical information from this transcription using the step-by-step process: " + transcriptionText
}

const diagnosisFormatInstructions = `Respond with a single JSON object, no surrounding prose, matching:
{
  "summary": string,
  "diagnosis_probabilities": [
    {"name": string, "probability": number, "reasoning": string, "symptoms": [string]}
  ],
  "conclusion": string
}`

const diagnosisPromptTemplate = `<context>
    You are a doctor with expertise in clinical diagnosis.
    You'll be given a summary of a conversation between a doctor and a patient, information about the patient, reason for the visit and details about the symptoms.
    You need to analyze the patient's symptoms, their severity, and duration.
    Consider the patient's age, demographic factors, behavior, lifestyle, nutrition, hydration, and other factors that might be relevant for the diagnosis.
</context>

<input>
    <summary>
    %s
    </summary>

    <patient_info>
    %s
    </patient_info>

    <reason_for_visit>
    %s
    </reason_for_visit>

    <symptoms_details>
    %s
    </symptoms_details>
</input>

<instructions>
    1- Generate a list of probable diagnosis using evidence-based reasoning.
    2- Based on the chances of the patient having the disease, assign probability estimates (0-100%%) for each diagnosis.
    3- Explain the disease and the reasoning behind the probable diagnosis. Relate the patient's symptoms to the diagnosis.
    4- Refer to the text within <knowledge-base></knowledge-base> for evidence-based reasoning. Use it as guidance, but also, feel free to consider alternative diagnoses not listed in the knowledge base.
</instructions>

<knowledge-base>
%s
</knowledge-base>

<output-instructions>
    Present your response with the following attributes:
    - summary: Explain what the transcription is about. Include patient's name, age, gender, and symptoms and relevant information for the diagnosis.
    - diagnosis_probabilities: Provide the list of probable diagnosis according to the instructions.
    - conclusion: Select the most likely diagnosis of the patient. Justify your selection with clinical reasoning.
</output-instructions>

<output>
%s
</output>`

func buildDiagnosisPrompt(record models.ClinicalRecord, knowledgeBase string) string {
	patientInfo, _ := json.Marshal(record.PatientInfo)
	reason := record.ReasonForVisit
	if reason == "" {
		reason = "Not specified"
	}
	return fmt.Sprintf(diagnosisPromptTemplate,
		record.Summary,
		patientInfo,
		reason,
		formatSymptomsForPrompt(record.ClassifiedSymptoms),
		knowledgeBase,
		diagnosisFormatInstructions,
	)
}

const treatmentPlanPromptTemplate = `<context>
    You are a doctor with expertise in generating treatment plan for patients.
    You'll be given a diagnosis report generated for a patient, having probability estimates (0-100%%) based on the chances of the patient having the disease.
    You need to analyze the full report, the patient's symptoms, their severity, and duration.
    Consider the patient's age, demographic factors, behavior, lifestyle, nutrition, hydration, and other factors that might be relevant for the treatment plan.
</context>
<instructions>
    # Treatment Plan
    - Develop a **personalized treatment plan** tailored to the patient's condition and symptoms.
    - Adjust treatment intensity based on **symptom severity**.
    - Include both **pharmacological** and **non-pharmacological** interventions when applicable.
    - Provide a clear **explanation and clinical reasoning** behind each element of the treatment plan.

    # Recommendations
    - Write a **recommendation text** directed to the doctor managing the case.
    - **Highlight and alert** if any critical or red-flag symptoms are present.
    - Suggest appropriate **diagnostic tests and procedures** to improve accuracy.
    - Explain the **clinical reasoning** behind each recommendation.
    - Include **follow-up actions or monitoring** if relevant.
</instructions>

<diagnosis_report>
%s
</diagnosis_report>

<output>
    - Present your response in two distinct sections, each with its own title: "Treatment Plan" and "Recommendation".
</output>`

func buildTreatmentPlanPrompt(diagnosisJSON string) string {
	return fmt.Sprintf(treatmentPlanPromptTemplate, diagnosisJSON)
}

const reportPromptTemplate = `<role>
    You are an expert in creating structured and professional **markdown reports** for clinical cases.
</role>

<context>
    You will be provided with the following information:
    - A **Diagnosis Report** containing "Summary", "Diagnosis", and "Conclusion".
    - A **Treatment Plan** and **Recommendations** for the patient.
</context>

<goal>
    - Generate a clear, well-structured report in **markdown format**.
    - Use **bullet points** for readability and concise presentation.
    - Format hierarchy with **"#" for main sections**, **"##" for subsections**, and **"###" for sub-subsections**.
    - Highlight key details with **bold** and emphasize *medical terms* or important notes with *italics*.
    - Ensure the report is **intuitive, professional, and easy to navigate** for clinical use.
</goal>

<diagnosis_report>
%s
</diagnosis_report>

<treatment_plan>
%s
</treatment_plan>

<output>
    Generate a comprehensive report in markdown format combining the diagnosis and treatment information.
</output>`

func buildReportPrompt(diagnosisJSON, treatmentPlan string) string {
	return fmt.Sprintf(reportPromptTemplate, diagnosisJSON, treatmentPlan)
}

// formatSymptomsForPrompt renders classified symptoms as a markdown bullet
// list for the diagnosis prompt.
func formatSymptomsForPrompt(symptoms []models.ClassifiedSymptom) string {
	if len(symptoms) == 0 {
		return "No specific symptoms documented."
	}

	lines := make([]string, 0, len(symptoms))
	for _, s := range symptoms {
		details := []string{fmt.Sprintf("Severity: %s", s.Severity)}
		if s.Intensity != "" {
			details = append(details, fmt.Sprintf("Intensity: %s", s.Intensity))
		}
		if s.Duration != "" {
			details = append(details, fmt.Sprintf("Duration: %s", s.Duration))
		}
		details = append(details, fmt.Sprintf("Confidence: %.2f", s.ConfidenceScore))
		lines = append(lines, fmt.Sprintf("- **%s** - %s", s.Name, strings.Join(details, " - ")))
	}
	return strings.Join(lines, "\n")
}
