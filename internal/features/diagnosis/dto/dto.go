package dto

// PredictRequest carries one base64 image per eye, optionally prefixed with
// a data-URI header. Pointers distinguish a missing field from "".
type PredictRequest struct {
	LeftEye  *string `json:"left_eye"`
	RightEye *string `json:"right_eye"`
}

type PredictResponse struct {
	LeftDiagnosis  string `json:"left_diagnosis"`
	RightDiagnosis string `json:"right_diagnosis"`
}
