package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/flowbit/internal/pipeline"
	"github.com/JaimeStill/flowbit/pkg/handlers"
	"github.com/JaimeStill/flowbit/pkg/routes"
)

var (
	errFileTooLarge  = errors.New("uploaded file exceeds the size limit")
	errInvalidIntake = errors.New("request must carry a file upload or a text body")
)

type intakeHandler struct {
	runtime       *pipeline.Runtime
	logger        *slog.Logger
	maxUploadSize int64
}

func newIntakeHandler(
	runtime *pipeline.Runtime,
	logger *slog.Logger,
	maxUploadSize int64,
) *intakeHandler {
	return &intakeHandler{
		runtime:       runtime,
		logger:        logger.With("handler", "intake"),
		maxUploadSize: maxUploadSize,
	}
}

func (h *intakeHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/intake",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.submit},
		},
	}
}

// submit accepts a document as a multipart file upload or as raw text
// (multipart "text" field or a JSON body) and runs the full pipeline on it.
func (h *intakeHandler) submit(w http.ResponseWriter, r *http.Request) {
	input, err := h.parseInput(r)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errFileTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		handlers.RespondError(w, h.logger, status, err)
		return
	}

	result, err := pipeline.Run(r.Context(), h.runtime, input)
	if err != nil {
		handlers.RespondError(w, h.logger, mapIntakeStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *intakeHandler) parseInput(r *http.Request) (*pipeline.Input, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		return h.parseMultipart(r)
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, h.maxUploadSize)).Decode(&body); err != nil {
		return nil, errInvalidIntake
	}

	return &pipeline.Input{Text: body.Text}, nil
}

func (h *intakeHandler) parseMultipart(r *http.Request) (*pipeline.Input, error) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		return nil, errFileTooLarge
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if text := r.FormValue("text_input"); text != "" {
			return &pipeline.Input{Text: text}, nil
		}
		return nil, errInvalidIntake
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errInvalidIntake
	}

	return &pipeline.Input{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		FileData:    data,
	}, nil
}

func mapIntakeStatus(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrNoInput), errors.Is(err, pipeline.ErrDecode):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
