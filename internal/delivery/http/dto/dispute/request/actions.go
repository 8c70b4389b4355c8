package request

type RespondRequest struct {
	Response string `json:"response"`
}

type AppealRequest struct {
	AppealReason string `json:"appealReason"`
}
