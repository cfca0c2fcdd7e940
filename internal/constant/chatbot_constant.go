package constant

const (
	// The literal stored as the user turn when the "need more information" action fires
	NeedMoreInformationMessage = "I need more information."

	AskQuestionFirstMessage   = "Please ask a question first before requesting more information."
	EmptyQuestionMessage      = "Please type a question about your prescription."
	AnswerGenerationFailed    = "Sorry, an error occurred while generating the answer."
	SearchingTheWebMessage    = "Let me search the web for more information..."
	WebOnlyAnswerPrefix       = "Additional information from the web: "
	HealthcareDisclaimer      = "If you need more details, please consult a healthcare professional."
	UnknownSourceLocator      = "Unknown Source"
	PrescriptionSourceLocator = "prescription"
	TranslationFailedMessage  = "Translation failed"
	NoWebInformationText      = "No additional information found on the web."
	NoWebInformationURL       = "N/A"

	// Prefix for an escalated answer when the web had nothing to add; %s is the question
	GeneralAnswerPrefixFormat = "The prescription text does not contain specific information about %s. Here is a general answer based on available knowledge:\n\n"

	// Prescription extraction prompt sent with the uploaded image
	ExtractionPromptV1 = `You are a helpful chemist. Think of it as you are conversing with the user. Do NOT mention any details about the patient or the doctor. The user has just clicked a picture of the prescription and is now asking for advice on what all medicines do they have to take and when. When the user uploads a picture of their medical prescription you are to guide them on what all medicines have been prescribed to them and how they should be taking the medicines, as written in the prescription. For this you will 1. begin with the condition (if it mentioned) otherwise skip this step 2. begin explaining a) each of the medicines prescribed b) in what form (is it a syrup, tablet, powder, injection or something else) they need to be taken c) why this medicine was this recommended d) how does this medicine help e) dosage and frequency of dosage. In case any dosage is not clear let the user know and then suggest the best dosage practice for the condition of the patient as mentioned in the prescription. f) any precautions that the patient has been prescribed to take. Note: Also I want to use the output of this exercise and pass it along for text to speech conversion. Share the response in such a way that is a flowing conversation wherein each sentence flows into the next meaningfully and effortlessly and not abruptly. Construct your response to meet all of the above conditions. Important: As an example, if the prescription says use a medicine for 5-7 days mention it like so: 5 to 7 days instead of 5-7 days. Summarise within 1000 characters but do NOT leave out medicine related information.`
)

// Limits
const (
	ExtractedTextLimit     = 500
	MoreInfoNarrationLimit = 500
	NarrationChunkLimit    = 500
	WebPageTextLimit       = 5000
	WebResultLimit         = 3
	RetrievalTopK          = 2
	SourcePreviewLimit     = 200
)

// Artifact file names, overwritten on every event
const (
	ExtractedTextFile     = "extracted_truncated_prescription.txt"
	TranslatedTextFile    = "translated_prescription_hindi.txt"
	CleanedTextFile       = "cleaned_prescription_hindi.txt"
	PrescriptionAudioFile = "output.wav"
	AnswerAudioFile       = "answer_audio.wav"
)
