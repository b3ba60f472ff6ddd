package auth

type TokenRequest struct {
	ID    string `json:"id"`    // ID игрока у провайдера
	Name  string `json:"name"`  // Отображаемое имя
	Photo string `json:"photo"` // Ссылка на аватар
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
}
