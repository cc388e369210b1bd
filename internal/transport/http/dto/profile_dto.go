package dto

type ProfileSubmitRequest struct {
	Answers map[string]string `json:"answers"`
}

type OnboardingQuestionResponse struct {
	Key    string `json:"key"`
	Prompt string `json:"prompt"`
}

type OnboardingQuestionsResponse struct {
	Questions []OnboardingQuestionResponse `json:"questions"`
}
