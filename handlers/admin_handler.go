package handlers

import (
	"net/http"
	"strconv"

	"pubquiz/models"
	"pubquiz/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type AdminHandler struct {
	roundService    *services.RoundService
	questionService *services.QuestionService
	importService   *services.ImportService
	userService     *services.UserService
	imageService    *services.ImageService
	log             zerolog.Logger
}

func NewAdminHandler(
	roundService *services.RoundService,
	questionService *services.QuestionService,
	importService *services.ImportService,
	userService *services.UserService,
	imageService *services.ImageService,
	logger zerolog.Logger,
) *AdminHandler {
	return &AdminHandler{
		roundService:    roundService,
		questionService: questionService,
		importService:   importService,
		userService:     userService,
		imageService:    imageService,
		log:             logger,
	}
}

// ===== ROUNDS =====

func (h *AdminHandler) ListRounds(c *gin.Context) {
	rounds, err := h.roundService.FindAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	counts, err := h.roundService.QuestionCounts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rounds": rounds, "question_counts": counts})
}

func (h *AdminHandler) CreateRound(c *gin.Context) {
	var req services.RoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	round, err := h.roundService.Create(&req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, round)
}

func (h *AdminHandler) UpdateRound(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req services.RoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	round, err := h.roundService.Update(id, &req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, round)
}

func (h *AdminHandler) ActivateRound(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	round, err := h.roundService.Activate(id)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, round)
}

func (h *AdminHandler) DeactivateRound(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	round, err := h.roundService.Deactivate(id)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, round)
}

func (h *AdminHandler) DeleteRound(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.roundService.Delete(id); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Round deleted"})
}

// ===== QUESTIONS =====

func (h *AdminHandler) ListQuestions(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	round, err := h.roundService.FindByID(id)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	questions, err := h.roundService.Questions(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"round": round, "questions": questions})
}

// ImportQuestions accepts a multipart spreadsheet upload plus a language
// form field and appends valid rows to the round's question list. Row
// errors are returned alongside the import count; rows are independent.
func (h *AdminHandler) ImportQuestions(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	round, err := h.roundService.FindByID(id)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	language := models.Language(c.PostForm("language"))
	if language == "" {
		language = models.LanguageDE
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A file upload is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
		return
	}
	defer file.Close()

	result := h.importService.Import(file, fileHeader.Filename, round, language)

	status := http.StatusOK
	if !result.Success && result.QuestionsImported == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, result)
}

// UploadImages stores a batch of question images and returns the generated
// filenames for referencing from question rows.
func (h *AdminHandler) UploadImages(c *gin.Context) {
	if _, ok := uintParam(c, "id"); !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image files are required"})
		return
	}

	uploaded := []string{}
	for _, fileHeader := range form.File["images"] {
		if fileHeader.Size == 0 {
			continue
		}
		file, err := fileHeader.Open()
		if err != nil {
			h.log.Warn().Err(err).Str("filename", fileHeader.Filename).Msg("skipping unreadable upload")
			continue
		}
		filename, err := h.imageService.Store(file, fileHeader.Filename, "questions")
		file.Close()
		if err != nil {
			h.log.Warn().Err(err).Str("filename", fileHeader.Filename).Msg("could not store upload")
			continue
		}
		uploaded = append(uploaded, filename)
	}

	if len(uploaded) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No images were uploaded"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"uploaded": uploaded})
}

func (h *AdminHandler) UpdateQuestion(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.questionService.Update(id, &req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, question)
}

func (h *AdminHandler) DeleteQuestion(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.questionService.Delete(id); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question deleted"})
}

// ===== USERS =====

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.FindAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req services.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Create(&req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Update(id, &req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Delete(id); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(value), true
}
