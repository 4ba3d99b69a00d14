package models

import "strings"

// ViaCEPResponse mirrors the JSON body returned by the ViaCEP directory
type ViaCEPResponse struct {
	CEP         string      `json:"cep"`
	Logradouro  string      `json:"logradouro"`
	Complemento string      `json:"complemento"`
	Unidade     string      `json:"unidade"`
	Bairro      string      `json:"bairro"`
	Localidade  string      `json:"localidade"`
	UF          string      `json:"uf"`
	Estado      string      `json:"estado"`
	IBGE        string      `json:"ibge"`
	GIA         string      `json:"gia"`
	DDD         string      `json:"ddd"`
	SIAFI       string      `json:"siafi"`
	Erro        interface{} `json:"erro,omitempty"`
}

// NotFound reports whether the directory flagged the postal code as unknown.
// ViaCEP answers 200 with "erro": true (older API) or "erro": "true".
func (r *ViaCEPResponse) NotFound() bool {
	switch v := r.Erro.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	default:
		return false
	}
}

// ToLookupResult maps the directory response into an AddressLookupResult
func (r *ViaCEPResponse) ToLookupResult() *AddressLookupResult {
	return &AddressLookupResult{
		PostalCode:   r.CEP,
		Street:       r.Logradouro,
		Complement:   r.Complemento,
		Neighborhood: r.Bairro,
		City:         r.Localidade,
		State:        r.UF,
		IBGE:         r.IBGE,
		DDD:          r.DDD,
	}
}

// AddressLookupResult is the address resolved for a postal code
type AddressLookupResult struct {
	PostalCode   string `json:"postal_code"`
	Street       string `json:"street"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	IBGE         string `json:"ibge,omitempty"`
	DDD          string `json:"ddd,omitempty"`
}
