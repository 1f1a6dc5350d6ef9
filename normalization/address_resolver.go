package normalization

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// DefaultZIPPrefixLen количество цифр ZIP, участвующих в ключе базового адреса.
// Три цифры (sectional center) склеивают районы одного города: так
// "30 Beach St, Boston 02111" и "30 Beach St, Dorchester 02122" считаются одним адресом.
const DefaultZIPPrefixLen = 3

var (
	// ErrNoCandidates внешний сервис не вернул ни одного кандидата
	ErrNoCandidates = errors.New("no address candidates found")

	// ErrMalformedCandidate у записи кандидата нет поля name
	ErrMalformedCandidate = errors.New("malformed address candidate")
)

var (
	// "1 - 30 Beach St", "30-1 - 30 Beach St": префикс квартиры/диапазона перед номером дома
	unitPrefixPattern = regexp.MustCompile(`^\s*\d+[A-Za-z]?(?:\s*-\s*\d+[A-Za-z]?)?\s+-\s+(\d.*)$`)
	zipPattern        = regexp.MustCompile(`\b(\d{5})(?:-\d{4})?\s*$`)
	spacePattern      = regexp.MustCompile(`\s+`)
)

// MalformedCandidateError ошибка разбора конкретного кандидата
type MalformedCandidateError struct {
	Index  int
	Reason string
}

// Error реализует интерфейс error
func (e *MalformedCandidateError) Error() string {
	return fmt.Sprintf("%v: candidate %d: %s", ErrMalformedCandidate, e.Index, e.Reason)
}

// Unwrap позволяет сравнивать через errors.Is(err, ErrMalformedCandidate)
func (e *MalformedCandidateError) Unwrap() error {
	return ErrMalformedCandidate
}

// AddressCandidate одна запись, возвращенная сервисом поиска адресов.
// Кроме name запись содержит непрозрачные идентификаторы (parcel_id, place_id, ...),
// которые резолвер не трогает.
type AddressCandidate map[string]interface{}

// Name возвращает отображаемый адрес кандидата
func (c AddressCandidate) Name() (string, bool) {
	name, ok := c["name"].(string)
	if !ok || strings.TrimSpace(name) == "" {
		return "", false
	}
	return name, true
}

// PlaceID идентификатор места в сервисе расписаний
func (c AddressCandidate) PlaceID() string {
	return c.field("place_id")
}

// ServiceID идентификатор сервиса вывоза мусора
func (c AddressCandidate) ServiceID() string {
	return c.field("service_id")
}

// ParcelID идентификатор участка
func (c AddressCandidate) ParcelID() string {
	return c.field("parcel_id")
}

// AreaName название зоны обслуживания
func (c AddressCandidate) AreaName() string {
	return c.field("area_name")
}

func (c AddressCandidate) field(key string) string {
	switch v := c[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

// ResolutionOutcome итог разрешения адреса
type ResolutionOutcome string

const (
	// OutcomeSingle найден ровно один канонический адрес
	OutcomeSingle ResolutionOutcome = "single"
	// OutcomeAmbiguous найдено несколько разных адресов, нужно спросить пользователя
	OutcomeAmbiguous ResolutionOutcome = "ambiguous"
)

// AddressMatch канонический адрес и кандидат, выбранный его представителем
type AddressMatch struct {
	Name      string           `json:"name"`
	Candidate AddressCandidate `json:"candidate"`
	Variants  int              `json:"variants"` // Сколько кандидатов схлопнуто в этот адрес
}

// Resolution результат разрешения списка кандидатов
type Resolution struct {
	Outcome ResolutionOutcome `json:"outcome"`
	Matches []AddressMatch    `json:"matches"`
}

// Addresses возвращает канонические адреса в порядке первого появления
func (r *Resolution) Addresses() []string {
	addresses := make([]string, 0, len(r.Matches))
	for _, m := range r.Matches {
		addresses = append(addresses, m.Name)
	}
	return addresses
}

// IsAmbiguous true, если пользователю нужно уточнить адрес
func (r *Resolution) IsAmbiguous() bool {
	return r.Outcome == OutcomeAmbiguous
}

// ResolverConfig политика группировки адресов
type ResolverConfig struct {
	// ZIPPrefixLen сколько первых цифр ZIP отличают разные здания (1..5)
	ZIPPrefixLen int
}

// AddressResolver схлопывает почти одинаковых кандидатов в канонические адреса
type AddressResolver struct {
	zipPrefixLen int
}

// NewAddressResolver создает резолвер адресов
func NewAddressResolver(config ResolverConfig) *AddressResolver {
	prefixLen := config.ZIPPrefixLen
	if prefixLen <= 0 || prefixLen > 5 {
		prefixLen = DefaultZIPPrefixLen
	}
	return &AddressResolver{zipPrefixLen: prefixLen}
}

var defaultResolver = NewAddressResolver(ResolverConfig{})

// FindUniqueAddresses возвращает уникальные адреса с политикой по умолчанию
func FindUniqueAddresses(candidates []AddressCandidate) ([]string, error) {
	return defaultResolver.FindUniqueAddresses(candidates)
}

// FindUniqueAddresses возвращает уникальные отображаемые адреса
func (ar *AddressResolver) FindUniqueAddresses(candidates []AddressCandidate) ([]string, error) {
	resolution, err := ar.Resolve(candidates)
	if err != nil {
		return nil, err
	}
	return resolution.Addresses(), nil
}

type addressGroup struct {
	match    AddressMatch
	prefixed bool
}

// Resolve группирует кандидатов по ключу базового адреса и выбирает
// по одному представителю на группу
func (ar *AddressResolver) Resolve(candidates []AddressCandidate) (*Resolution, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	groups := make(map[string]*addressGroup)
	order := make([]string, 0, len(candidates))

	for i, candidate := range candidates {
		name, ok := candidate.Name()
		if !ok {
			return nil, &MalformedCandidateError{Index: i, Reason: "missing name"}
		}

		_, prefixed := StripUnitPrefix(name)
		key := BaseAddressKey(name, ar.zipPrefixLen)

		group, exists := groups[key]
		if !exists {
			groups[key] = &addressGroup{
				match:    AddressMatch{Name: name, Candidate: candidate, Variants: 1},
				prefixed: prefixed,
			}
			order = append(order, key)
			continue
		}

		group.match.Variants++
		if betterRepresentative(name, prefixed, group.match.Name, group.prefixed) {
			group.match.Name = name
			group.match.Candidate = candidate
			group.prefixed = prefixed
		}
	}

	resolution := &Resolution{
		Outcome: OutcomeSingle,
		Matches: make([]AddressMatch, 0, len(order)),
	}
	for _, key := range order {
		resolution.Matches = append(resolution.Matches, groups[key].match)
	}
	if len(resolution.Matches) > 1 {
		resolution.Outcome = OutcomeAmbiguous
	}

	return resolution, nil
}

// betterRepresentative: форма без префикса, затем самая короткая, затем лексикографически меньшая
func betterRepresentative(name string, prefixed bool, current string, currentPrefixed bool) bool {
	if prefixed != currentPrefixed {
		return !prefixed
	}
	if len(name) != len(current) {
		return len(name) < len(current)
	}
	return name < current
}

// StripUnitPrefix убирает ведущие префиксы вида "<n> - " и "<n>-<m> - "
// перед номером дома. Второе значение true, если префикс был.
func StripUnitPrefix(name string) (string, bool) {
	stripped := false
	for {
		match := unitPrefixPattern.FindStringSubmatch(name)
		if match == nil {
			return name, stripped
		}
		name = match[1]
		stripped = true
	}
}

// BaseAddressKey строит ключ группировки: улица с номером дома и первые
// zipPrefixLen цифр ZIP. Без ZIP в ключ попадает населенный пункт.
func BaseAddressKey(name string, zipPrefixLen int) string {
	base, _ := StripUnitPrefix(name)
	street, locality, zip := splitAddress(foldAddress(base))

	if zip != "" {
		if zipPrefixLen <= 0 || zipPrefixLen > len(zip) {
			zipPrefixLen = len(zip)
		}
		return street + "|" + zip[:zipPrefixLen]
	}
	return street + "|" + locality
}

// splitAddress делит "30 beach st, dorchester 02122" на улицу, район и ZIP
func splitAddress(address string) (street, locality, zip string) {
	if m := zipPattern.FindStringSubmatchIndex(address); m != nil {
		zip = address[m[2]:m[3]]
		address = strings.TrimSpace(address[:m[0]])
	}

	street = address
	if idx := strings.Index(address, ","); idx >= 0 {
		street = address[:idx]
		locality = address[idx+1:]
	}

	return strings.Trim(street, " ,"), strings.Trim(locality, " ,"), zip
}

func foldAddress(s string) string {
	s = norm.NFKC.String(s)
	s = cases.Fold().String(s)
	s = strings.ReplaceAll(s, ".", "")
	s = spacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
