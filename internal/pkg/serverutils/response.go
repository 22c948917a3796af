package serverutils

type BaseResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func SuccessResponse(message string, data interface{}) BaseResponse {
	return BaseResponse{
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(message string, kind string) BaseResponse {
	return BaseResponse{
		Message: message,
		Error:   kind,
	}
}
