package observability

import (
	"github.com/prefeitura-rio/app-cadastro/internal/logging"
	"github.com/prefeitura-rio/app-cadastro/internal/utils"
)

// Logger returns the global safe logger instance
func Logger() *logging.SafeLogger {
	return logging.Logger
}

// MaskCPF masks a CPF number for logging; formatting punctuation is ignored
func MaskCPF(cpf string) string {
	digits := utils.OnlyDigits(cpf)
	if len(digits) != 11 {
		return "***.***.***-**"
	}
	return digits[:3] + ".***." + digits[6:9] + "-**"
}

// MaskPostalCode keeps the region prefix of a CEP and hides the rest
func MaskPostalCode(cep string) string {
	digits := utils.OnlyDigits(cep)
	if len(digits) != 8 {
		return "*****-***"
	}
	return digits[:3] + "**-***"
}
