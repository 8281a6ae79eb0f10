package router

import (
	"github.com/gin-gonic/gin"

	"github.com/trackboard/backend/internal/handler"
	"github.com/trackboard/backend/internal/middleware"
)

type Deps struct {
	HealthHandler      *handler.HealthHandler
	ProjectHandler     *handler.ProjectHandler
	RequirementHandler *handler.RequirementHandler
	DefectHandler      *handler.DefectHandler
	ImportHandler      *handler.ImportHandler
	NoteHandler        *handler.NoteHandler
	RetroHandler       *handler.RetrospectiveHandler
	ReleaseHandler     *handler.ReleaseHandler
}

func Setup(r *gin.Engine, deps Deps) {
	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api")

	api.GET("/health", deps.HealthHandler.Check)

	// Projects
	api.GET("/projects", deps.ProjectHandler.List)
	api.POST("/projects", deps.ProjectHandler.Create)
	api.DELETE("/projects/:name", deps.ProjectHandler.Delete)

	// Requirement groups and their activity log
	api.GET("/requirements", deps.RequirementHandler.ListGroups)
	api.PUT("/requirements/:groupId/rename", deps.RequirementHandler.RenameGroup)
	api.PUT("/requirements/:groupId/set-release", deps.RequirementHandler.SetGroupRelease)
	api.DELETE("/requirements/:groupId", deps.RequirementHandler.DeleteGroup)
	api.POST("/activities", deps.RequirementHandler.CreateActivity)
	api.PUT("/activities/:id", deps.RequirementHandler.PatchActivity)

	// Defects. The :id segment is a project name on the two listing
	// routes and a numeric defect id everywhere else; gin requires one
	// wildcard name per position.
	api.GET("/defects/all", deps.DefectHandler.ListAll)
	api.GET("/defects/:id", deps.DefectHandler.ListByProject)
	api.GET("/defects/:id/return-counts", deps.DefectHandler.ReturnCounts)
	api.GET("/defects/:id/history", deps.DefectHandler.History)
	api.POST("/defects", deps.DefectHandler.Create)
	api.PUT("/defects/:id", deps.DefectHandler.Update)
	api.DELETE("/defects/:id", deps.DefectHandler.Delete)

	// Spreadsheet import
	api.POST("/import/validate", deps.ImportHandler.ValidateRequirements)
	api.POST("/import/requirements", deps.ImportHandler.ExecuteRequirements)
	api.POST("/import/defects/validate", deps.ImportHandler.ValidateDefects)
	api.POST("/import/defects", deps.ImportHandler.ExecuteDefects)

	// Daily notes
	api.GET("/notes/:project", deps.NoteHandler.List)
	api.POST("/notes", deps.NoteHandler.Save)

	// Retrospective board
	api.GET("/retrospective/:project", deps.RetroHandler.List)
	api.POST("/retrospective", deps.RetroHandler.Create)
	api.PUT("/retrospective/:id", deps.RetroHandler.Update)
	api.DELETE("/retrospective/:id", deps.RetroHandler.Delete)

	// Releases
	api.GET("/releases/:project", deps.ReleaseHandler.List)
	api.POST("/releases", deps.ReleaseHandler.Create)
	api.PUT("/releases/:id", deps.ReleaseHandler.Update)
	api.DELETE("/releases/:id", deps.ReleaseHandler.Delete)
}
