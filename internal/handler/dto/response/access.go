package response

type AccessResponse struct {
	Granted bool `json:"granted"`
}
