package relay

// Response messages. Clients match on them, so they are part of the API.
const (
	MsgSent          = "Письмо успешно отправлено."
	MsgInvalidEmail  = "Неверный формат email"
	MsgInvalidFormat = "Неверный формат запроса"
	MsgSendFailed    = "Не удалось отправить письмо"
)

// EmailRequest is the body of POST /send-email.
type EmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// EmailResponse is the JSON reply of POST /send-email.
type EmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
