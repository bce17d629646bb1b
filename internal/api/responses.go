package api

import (
	"encoding/json"
	"net/http"

	"docsearcher/internal/domain/document"
)

// APIResponse 统一 JSON 响应。Error 为稳定的域错误码（仅错误时出现），
// 客户端按码分支而不是解析 message 文案。
type APIResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&APIResponse{
		Code:    status,
		Message: "ok",
		Data:    data,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&APIResponse{
		Code:    status,
		Message: message,
	})
}

// writeDomainError 写出域错误：HTTP 状态由错误码映射，envelope 带上错误码。
func writeDomainError(w http.ResponseWriter, err error, message string) {
	status := statusForError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&APIResponse{
		Code:    status,
		Message: message,
		Error:   string(document.CodeOf(err)),
	})
}

// statusForError 域错误码到 HTTP 状态的映射。
func statusForError(err error) int {
	switch document.CodeOf(err) {
	case document.CodeNotFound:
		return http.StatusNotFound
	case document.CodeInvalidPage, document.CodePageLimitExceeded, document.CodeInvalidUploadType:
		return http.StatusBadRequest
	case document.CodeUploadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
