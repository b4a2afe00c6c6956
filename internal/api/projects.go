package api

import (
	"net/http"

	"outreach-crm/internal/database"
	"outreach-crm/internal/models"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct{}

func NewProjectHandler() *ProjectHandler {
	return &ProjectHandler{}
}

func (h *ProjectHandler) GetProjects(c *gin.Context) {
	var projects []models.Project
	if err := database.DB.Order("created_at DESC").Find(&projects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}
	c.JSON(http.StatusOK, projects)
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	var project models.Project
	if err := database.DB.First(&project, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	c.JSON(http.StatusOK, project)
}

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
	EmployeeIDs string `json:"employee_ids"`
	InternIDs   string `json:"intern_ids"`
	ClientIDs   string `json:"client_ids"`
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project := models.Project{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		EmployeeIDs: req.EmployeeIDs,
		InternIDs:   req.InternIDs,
		ClientIDs:   req.ClientIDs,
	}
	if project.Status == "" {
		project.Status = "Planning"
	}
	if err := database.DB.Create(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	var project models.Project
	if err := database.DB.First(&project, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	delete(updates, "id")

	if err := database.DB.Model(&project).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) GetProjectRemarks(c *gin.Context) {
	var remarks []models.Remark
	if err := database.DB.Where("project_id = ?", c.Param("id")).Order("created_at DESC").Find(&remarks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if remarks == nil {
		remarks = []models.Remark{}
	}
	c.JSON(http.StatusOK, remarks)
}

func (h *ProjectHandler) AddProjectRemark(c *gin.Context) {
	var project models.Project
	if err := database.DB.First(&project, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	var req RemarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	remark := models.Remark{Content: req.Content, AuthorID: req.AuthorID, ProjectID: project.ID, IsInternal: true}
	if req.IsInternal != nil {
		remark.IsInternal = *req.IsInternal
	}
	if err := database.DB.Create(&remark).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, remark)
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

func (h *ProjectHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := models.User{Email: req.Email, Password: req.Password, Name: req.Name, Role: req.Role}
	if user.Role == "" {
		user.Role = "Employee"
	}
	if err := database.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A user with that email already exists"})
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *ProjectHandler) DeleteUser(c *gin.Context) {
	result := database.DB.Delete(&models.User{}, c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "User deleted"})
}

func (h *ProjectHandler) GetEmployees(c *gin.Context) {
	h.listUsersByRole(c, "Employee")
}

func (h *ProjectHandler) GetInterns(c *gin.Context) {
	h.listUsersByRole(c, "Intern")
}

func (h *ProjectHandler) listUsersByRole(c *gin.Context, role string) {
	var users []models.User
	if err := database.DB.Where("role = ?", role).Order("name").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if users == nil {
		users = []models.User{}
	}
	c.JSON(http.StatusOK, users)
}
