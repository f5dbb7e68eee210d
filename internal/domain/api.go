package domain

// Формат ошибки наружу: короткая машиночитаемая причина.
// Внутренние различия (подпись/срок/ревокация) остаются в логах.
type APIError struct {
	Detail string `json:"detail"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type TokensResponse struct {
	Status       string `json:"status"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func Fail(detail string) APIError { return APIError{Detail: detail} }
