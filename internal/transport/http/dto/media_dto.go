package dto

type PhotoUploadResponse struct {
	OK       bool   `json:"ok"`
	PhotoURL string `json:"photo_url"`
}
