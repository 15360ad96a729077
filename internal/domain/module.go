package domain

// Module определяет бизнес-контур, из которого пришло действие.
// Используется аудитом и фильтрами консоли.
type Module string

const (
	ModuleChatbot      Module = "Chatbot"
	ModuleUnderwriting Module = "Underwriting"
	ModuleClaims       Module = "Claims"

	// ModuleAll — служебное значение фильтра, не пишется в записи.
	ModuleAll Module = "All"
)

// Known сообщает, является ли значение одним из реальных модулей.
func (m Module) Known() bool {
	switch m {
	case ModuleChatbot, ModuleUnderwriting, ModuleClaims:
		return true
	}
	return false
}
