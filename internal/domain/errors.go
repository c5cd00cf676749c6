package domain

import "errors"

var ErrNotFound = errors.New("not found")

// UserError is a recoverable error whose Message is shown to the user as is.
type UserError struct {
	Code    string
	Message string
}

func (e *UserError) Error() string { return e.Code }

// Validation kinds.
var (
	ErrNotNumeric            = &UserError{Code: "not_numeric", Message: "Не числовое значение."}
	ErrNotPositive           = &UserError{Code: "not_positive", Message: "Число не может быть нулём или меньше нуля."}
	ErrWrongDateFormat       = &UserError{Code: "wrong_date_format", Message: "Неверный формат даты."}
	ErrPastDate              = &UserError{Code: "past_date", Message: "Дата не может быть в прошлом или равна текущему дню."}
	ErrEndBeforeStart        = &UserError{Code: "end_before_start", Message: "Дата выезда не может быть раньше/равна дате заезда."}
	ErrWrongPriceRangeFormat = &UserError{Code: "wrong_price_range_format", Message: "Неверный формат ценового диапазона."}
	ErrRangeInverted         = &UserError{Code: "range_inverted", Message: "Второе число ценового диапазона не может быть меньше первого или равно."}
	ErrWrongBooleanFormat    = &UserError{Code: "wrong_boolean_format", Message: "Неверный формат ответа."}
)

// Resolution kinds.
var (
	ErrCityNotFound            = &UserError{Code: "city_not_found", Message: "Город с таким именем не найден."}
	ErrAmbiguousCity           = &UserError{Code: "ambiguous_city", Message: "С таким названием найдено несколько городов. Попробуйте уточнить поиск."}
	ErrCityCountryNotSupported = &UserError{Code: "country_not_supported", Message: "Страна предоставленного города не поддерживается."}
)

// UserMessage reports the user-facing text of err, if it carries one.
func UserMessage(err error) (string, bool) {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Message, true
	}
	return "", false
}
