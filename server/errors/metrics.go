package errors

import (
	"net/http"
	"sync"
	"time"
)

const defaultMaxRecentErrors = 50

// ErrorMetricsCollector считает ошибки API и хранит последние из них
type ErrorMetricsCollector struct {
	mu sync.RWMutex

	total      int64
	byType     map[string]int64
	byCode     map[int]int64
	byEndpoint map[string]int64
	recent     []ErrorRecord
	maxRecent  int
	startTime  time.Time
	now        func() time.Time
}

// ErrorRecord запись об одной ошибке
type ErrorRecord struct {
	Timestamp   time.Time `json:"timestamp"`
	Type        string    `json:"type"`
	Code        int       `json:"code"`
	Message     string    `json:"message"`
	UserMessage string    `json:"user_message"`
	Endpoint    string    `json:"endpoint"`
	RequestID   string    `json:"request_id,omitempty"`
}

// ErrorMetricsSnapshot копия метрик на момент запроса
type ErrorMetricsSnapshot struct {
	TotalErrors      int64            `json:"total_errors"`
	ErrorsByType     map[string]int64 `json:"errors_by_type"`
	ErrorsByCode     map[int]int64    `json:"errors_by_code"`
	ErrorsByEndpoint map[string]int64 `json:"errors_by_endpoint"`
	RecentErrors     []ErrorRecord    `json:"recent_errors"`
	UptimeSeconds    float64          `json:"uptime_seconds"`
}

// NewErrorMetricsCollector создает сборщик метрик ошибок
func NewErrorMetricsCollector() *ErrorMetricsCollector {
	c := &ErrorMetricsCollector{maxRecent: defaultMaxRecentErrors, now: time.Now}
	c.reset()
	return c
}

// RecordError учитывает ошибку, возвращенную эндпоинтом
func (emc *ErrorMetricsCollector) RecordError(err *AppError, endpoint, requestID string) {
	if err == nil {
		return
	}

	emc.mu.Lock()
	defer emc.mu.Unlock()

	errorType := ErrorType(err.Code)
	emc.total++
	emc.byType[errorType]++
	emc.byCode[err.Code]++
	if endpoint != "" {
		emc.byEndpoint[endpoint]++
	}

	record := ErrorRecord{
		Timestamp:   emc.now(),
		Type:        errorType,
		Code:        err.Code,
		Message:     err.Error(),
		UserMessage: err.UserMessage(),
		Endpoint:    endpoint,
		RequestID:   requestID,
	}
	emc.recent = append([]ErrorRecord{record}, emc.recent...)
	if len(emc.recent) > emc.maxRecent {
		emc.recent = emc.recent[:emc.maxRecent]
	}
}

// Snapshot возвращает копию текущих метрик
func (emc *ErrorMetricsCollector) Snapshot() ErrorMetricsSnapshot {
	emc.mu.RLock()
	defer emc.mu.RUnlock()

	snapshot := ErrorMetricsSnapshot{
		TotalErrors:      emc.total,
		ErrorsByType:     make(map[string]int64, len(emc.byType)),
		ErrorsByCode:     make(map[int]int64, len(emc.byCode)),
		ErrorsByEndpoint: make(map[string]int64, len(emc.byEndpoint)),
		RecentErrors:     make([]ErrorRecord, len(emc.recent)),
		UptimeSeconds:    emc.now().Sub(emc.startTime).Seconds(),
	}
	for k, v := range emc.byType {
		snapshot.ErrorsByType[k] = v
	}
	for k, v := range emc.byCode {
		snapshot.ErrorsByCode[k] = v
	}
	for k, v := range emc.byEndpoint {
		snapshot.ErrorsByEndpoint[k] = v
	}
	copy(snapshot.RecentErrors, emc.recent)

	return snapshot
}

// Reset сбрасывает все метрики
func (emc *ErrorMetricsCollector) Reset() {
	emc.mu.Lock()
	defer emc.mu.Unlock()
	emc.reset()
}

func (emc *ErrorMetricsCollector) reset() {
	emc.total = 0
	emc.byType = make(map[string]int64)
	emc.byCode = make(map[int]int64)
	emc.byEndpoint = make(map[string]int64)
	emc.recent = make([]ErrorRecord, 0)
	emc.startTime = emc.now()
}

// ErrorType имя типа ошибки по HTTP коду
func ErrorType(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "ValidationError"
	case http.StatusForbidden:
		return "ForbiddenError"
	case http.StatusNotFound:
		return "NotFoundError"
	case http.StatusConflict:
		return "ConflictError"
	case http.StatusInternalServerError:
		return "InternalError"
	case http.StatusBadGateway:
		return "BadGatewayError"
	case http.StatusServiceUnavailable:
		return "ServiceUnavailableError"
	default:
		return "UnknownError"
	}
}
