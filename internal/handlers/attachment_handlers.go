package handlers

import (
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/s0-shady/Task-Manager-django/internal/handlers/dto"
	"github.com/s0-shady/Task-Manager-django/internal/logger"
)

// предельный размер файла вложения
const maxAttachmentSize = 32 << 20

type AttachmentHandler struct {
	attachmentService AttachmentService
}

func NewAttachmentHandler(attachmentService AttachmentService) AttachmentHandler {
	return AttachmentHandler{attachmentService: attachmentService}
}

// GetTaskAttachments отдаёт вложения задачи
func (h *AttachmentHandler) GetTaskAttachments(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, err := parseID(r, "id")
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "не удалось получить id: "+err.Error())
		return
	}

	attachments, err := h.attachmentService.ListForTask(r.Context(), taskID)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "list_attachments"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Вложения получены",
		zap.Int64("task_id", taskID),
		zap.Int("count", len(attachments)),
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, http.StatusOK, dto.FromAttachmentList(attachments))
}

// PostAttachment принимает multipart-форму с полем file
func (h *AttachmentHandler) PostAttachment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, err := parseID(r, "id")
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "не удалось получить id: "+err.Error())
		return
	}

	if err := r.ParseMultipartForm(maxAttachmentSize); err != nil {
		logger.Warn("HTTP: ошибка чтения multipart-формы",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверная multipart-форма: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", "file"),
			zap.String("error", "missing_file"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "файл не передан")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		logger.Error("HTTP: Ошибка чтения файла", err,
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, "чтение файла: "+err.Error())
		return
	}

	attachment, err := h.attachmentService.Add(r.Context(), taskID, data, header.Filename)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "add_attachment"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Вложение добавлено",
		zap.Int64("attachment_id", attachment.ID),
		zap.Int64("task_id", taskID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, dto.FromAttachment(attachment))
}

// GetAttachmentFile отдаёт содержимое файла вложения
func (h *AttachmentHandler) GetAttachmentFile(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, err := parseID(r, "id")
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "не удалось получить id: "+err.Error())
		return
	}

	attachment, data, err := h.attachmentService.Open(r.Context(), id)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "open_attachment"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+attachment.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// DeleteAttachment удаляет вложение и возвращает id владеющей задачи
func (h *AttachmentHandler) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, err := parseID(r, "id")
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "не удалось получить id: "+err.Error())
		return
	}

	taskID, err := h.attachmentService.Delete(r.Context(), id)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "delete_attachment"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Вложение удалено",
		zap.Int64("attachment_id", id),
		zap.Int64("task_id", taskID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.DeleteAttachmentResponse{TaskID: taskID})
}
