package server

import (
	"net/http"
	"strings"

	studentdomain "github.com/brightpath/tutordesk/internal/student/domain"
	teacherdomain "github.com/brightpath/tutordesk/internal/teacher/domain"
	"github.com/gin-gonic/gin"
)

type createStudentRequest struct {
	FamilyID   string `json:"family_id"`
	Name       string `json:"name"`
	GradeLevel string `json:"grade_level"`
}

func (s *Server) CreateStudent(c *gin.Context) {
	var req createStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.studentSvc.Create(c.Request.Context(), studentdomain.CreateStudentRequest{
		FamilyID:   strings.TrimSpace(req.FamilyID),
		Name:       strings.TrimSpace(req.Name),
		GradeLevel: strings.TrimSpace(req.GradeLevel),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListStudents(c *gin.Context) {
	var query struct {
		FamilyID string `form:"family_id"`
		Status   string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	listReq := studentdomain.ListStudentRequest{
		FamilyID: strings.TrimSpace(query.FamilyID),
	}
	if trimmed := strings.TrimSpace(query.Status); trimmed != "" {
		status := studentdomain.StudentStatus(trimmed)
		listReq.Status = &status
	}

	resp, err := s.studentSvc.List(c.Request.Context(), listReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetStudent(c *gin.Context) {
	resp, err := s.studentSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateStudentRequest struct {
	Name       *string `json:"name"`
	GradeLevel *string `json:"grade_level"`
	Status     *string `json:"status"`
}

func (s *Server) UpdateStudent(c *gin.Context) {
	var req updateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	updateReq := studentdomain.UpdateStudentRequest{
		ID:         c.Param("id"),
		Name:       req.Name,
		GradeLevel: req.GradeLevel,
	}
	if req.Status != nil {
		status := studentdomain.StudentStatus(*req.Status)
		updateReq.Status = &status
	}

	resp, err := s.studentSvc.Update(c.Request.Context(), updateReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type createTeacherRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Subjects string `json:"subjects"`
}

func (s *Server) CreateTeacher(c *gin.Context) {
	var req createTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.teacherSvc.Create(c.Request.Context(), teacherdomain.CreateTeacherRequest{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Subjects: strings.TrimSpace(req.Subjects),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTeachers(c *gin.Context) {
	var query struct {
		Status string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	listReq := teacherdomain.ListTeacherRequest{}
	if trimmed := strings.TrimSpace(query.Status); trimmed != "" {
		status := teacherdomain.TeacherStatus(trimmed)
		listReq.Status = &status
	}

	resp, err := s.teacherSvc.List(c.Request.Context(), listReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetTeacher(c *gin.Context) {
	resp, err := s.teacherSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
