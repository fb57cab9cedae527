package state

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Состояния входа
	StateLoginEmail    UserState = "login_email"
	StateLoginPassword UserState = "login_password"

	// Состояния регистрации (роль выбирается кнопками)
	StateRegisterName     UserState = "register_name"
	StateRegisterEmail    UserState = "register_email"
	StateRegisterPassword UserState = "register_password"
	StateRegisterPhone    UserState = "register_phone"
	StateRegisterAddress  UserState = "register_address"

	// Состояния создания площадки (админ)
	StateFacilityName        UserState = "facility_name"
	StateFacilityDescription UserState = "facility_description"
	StateFacilityPrice       UserState = "facility_price"
	StateFacilityLocation    UserState = "facility_location"
	StateFacilityImage       UserState = "facility_image"
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State UserState
	Data  map[string]interface{} // Временные данные для текущего диалога
}
