package handler

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"

	"github.com/ignatzorin/fme-backend/internal/interface/http/dto"
	"github.com/ignatzorin/fme-backend/internal/interface/http/response"
	"github.com/ignatzorin/fme-backend/internal/usecase/learner"
)

// Сколько байт читаем для определения типа: docx распознаётся по содержимому zip.
const sniffBytes = 8192

// Разрешённые типы резюме (по расширению, которое вернул filetype).
var allowedResumeTypes = map[string]bool{
	"pdf":  true,
	"doc":  true,
	"docx": true,
}

type LearnerHandler struct {
	createUC *learner.CreateLearnerUseCase
}

func NewLearnerHandler(createUC *learner.CreateLearnerUseCase) *LearnerHandler {
	return &LearnerHandler{createUC: createUC}
}

// CreateLearnerProfile обрабатывает POST /api/create_learner_profile?verification_id=.
func (h *LearnerHandler) CreateLearnerProfile(c *gin.Context) {
	id, ok := parseVerificationID(c, c.Query("verification_id"))
	if !ok {
		return
	}

	var req dto.CreateLearnerRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "invalid learner profile payload")
		return
	}

	in := req.ToInput(id)
	in.UserAgent = c.Request.UserAgent()
	in.IPAddress = c.ClientIP()

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		resume, closer, ok := readResume(c)
		if !ok {
			return
		}
		if closer != nil {
			defer closer.Close()
		}
		in.Resume = resume
	}

	res, err := h.createUC.Execute(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToCreateLearnerResponse(res))
}

// readResume читает необязательное поле resume и проверяет реальный тип файла.
func readResume(c *gin.Context) (*learner.Resume, io.Closer, bool) {
	file, err := c.FormFile("resume")
	if err == http.ErrMissingFile {
		return nil, nil, true
	}
	if err != nil {
		response.BadRequest(c, "unable to read resume")
		return nil, nil, false
	}
	if file.Size == 0 {
		response.BadRequest(c, "resume must not be empty")
		return nil, nil, false
	}

	src, err := file.Open()
	if err != nil {
		response.BadRequest(c, "unable to read resume")
		return nil, nil, false
	}

	head := make([]byte, sniffBytes)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		_ = src.Close()
		response.BadRequest(c, "unable to read resume")
		return nil, nil, false
	}
	head = head[:n]

	kind, err := filetype.Match(head)
	if err != nil || !allowedResumeTypes[kind.Extension] {
		_ = src.Close()
		response.BadRequest(c, "resume must be a pdf, doc or docx file")
		return nil, nil, false
	}

	name := strings.TrimSuffix(filepath.Base(file.Filename), filepath.Ext(file.Filename)) + "." + kind.Extension
	return &learner.Resume{
		Name:    name,
		Content: io.MultiReader(bytes.NewReader(head), src),
	}, src, true
}
