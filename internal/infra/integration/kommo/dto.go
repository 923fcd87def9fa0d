package kommo

type CreateLeadInput struct {
	CompanyURL string
	Email      string
	AgentName  string
	IsMock     bool
}
