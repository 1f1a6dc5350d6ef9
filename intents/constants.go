package intents

// Имена интентов, распознаваемых голосовой платформой
const (
	IntentTrashDay          = "TrashDayIntent"
	IntentSetAddress        = "SetAddressIntent"
	IntentCoronavirusUpdate = "CoronavirusUpdateIntent"
	IntentHelp              = "AMAZON.HelpIntent"
	IntentStop              = "AMAZON.StopIntent"
	IntentCancel            = "AMAZON.CancelIntent"
	IntentFallback          = "AMAZON.FallbackIntent"
)

// Ключи атрибутов сессии
const (
	CurrentAddressKey   = "currentAddress"
	AddressOptionsKey   = "addressOptions"
	IntentToContinueKey = "intentToContinue"
)

// AddressSlot слот с адресом пользователя
const AddressSlot = "Address"

// DeviceAddressPermission разрешение на чтение адреса устройства
const DeviceAddressPermission = "read::alexa:device:all:address"

// Заголовки карточек
const (
	SkillCardTitle       = "Boston Info"
	AddressCardTitle     = "Address"
	TrashDayCardTitle    = "Trash Day"
	CoronavirusCardTitle = "CORONAVIRUS (COVID-19) UPDATES"
	PermissionCardType   = "AskForPermissionsConsent"
)

// Фразы навыка
const (
	WelcomeMessage = "Welcome to the Boston Info skill. You can ask me when trash is picked up, " +
		"or for the latest coronavirus updates. What would you like to know?"
	HelpMessage = "You can ask, when is trash day, or, what are the coronavirus updates. " +
		"To set your address, say, my address is, followed by your street address."
	GoodbyeMessage = "Thank you for using the Boston Info skill. Goodbye!"

	AskAddressMessage = "I'm not sure what your address is. " +
		"You can tell me by saying, my address is, followed by your address."
	AddressPermissionMessage = "I need permission to use your device address. " +
		"Please grant it in the Alexa app, or tell me your address by saying, my address is, followed by your address."
	AddressNotInCityMessage = "This address is not in Boston. Please use an address in the city of Boston."
	AddressNotFoundMessage  = "I can't seem to find that address. " +
		"Please try again, and include the street number and street name."
	NoPickupScheduledMessage = "I couldn't find any trash or recycling pickup scheduled for that address this week."
	LookupUnavailableMessage = "I'm having trouble reaching the trash schedule service right now. Please try again later."

	NoCoronavirusUpdateMessage = "I'm not able to find an update right now. Please try again later."
	CoronavirusWelcome         = "<speak>Here are the latest updates:"
	NewsSound                  = `<audio src="soundbank://soundlibrary/musical/amzn_sfx_electronic_beep_03"/>` +
		`<audio src="soundbank://soundlibrary/musical/amzn_sfx_electronic_beep_02"/>` +
		`<audio src="soundbank://soundlibrary/musical/amzn_sfx_electronic_beep_01"/>`
)
