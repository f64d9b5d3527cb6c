package api

import (
	"errors"
	"github.com/gin-gonic/gin"
	"github.com/gmkornilov/bughouse-trainer/internal/dao"
	"github.com/gmkornilov/bughouse-trainer/internal/session"
	"github.com/gmkornilov/bughouse-trainer/pkg/bughouse"
	"github.com/gmkornilov/bughouse-trainer/pkg/puzgen"
	"github.com/notnil/chess"
	"io"
	"net/http"
	"strings"
)

type SessionApi struct {
	Runner   *session.Runner
	Importer *puzgen.Importer
	// PuzzleRepository is nil when storage is disabled
	PuzzleRepository dao.PuzzleRepository
}

func NewSessionApi(runner *session.Runner, importer *puzgen.Importer, repo dao.PuzzleRepository) *SessionApi {
	return &SessionApi{
		runner,
		importer,
		repo,
	}
}

func (a *SessionApi) Register(r gin.IRouter) {
	s := r.Group("/session")
	s.GET("", a.Session)
	s.POST("/import", a.Import)
	s.POST("/move", a.Move)
	s.POST("/drop", a.Drop)
	s.POST("/next", a.Next)
	s.POST("/previous", a.Previous)

	r.GET("/sets", a.ListSets)
	r.PUT("/sets/:name", a.SaveSet)
	r.POST("/sets/:name/load", a.LoadSet)
}

type moveRequest struct {
	From      string `json:"from" binding:"required"`
	To        string `json:"to" binding:"required"`
	Promotion string `json:"promotion"`
}

type dropRequest struct {
	Role string `json:"role" binding:"required"`
	To   string `json:"to" binding:"required"`
}

func (a *SessionApi) Session(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, a.Runner.Snapshot())
}

// Import replaces the session's puzzles with the ones found in the request body, either raw
// BPGN text or a multipart form with a "file" field.
func (a *SessionApi) Import(ctx *gin.Context) {
	var body io.Reader = ctx.Request.Body
	if strings.HasPrefix(ctx.ContentType(), "multipart/") {
		header, err := ctx.FormFile("file")
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}
		f, err := header.Open()
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}
		defer f.Close()
		body = f
	}

	puzzles, err := a.Importer.Import(body)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}
	snap, err := a.Runner.Do(ctx.Request.Context(), session.Load{Puzzles: puzzles})
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"error": err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"imported": len(puzzles),
		"session":  snap,
	})
}

func (a *SessionApi) Move(ctx *gin.Context) {
	var req moveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}
	from, ok1 := bughouse.ParseSquare(req.From)
	to, ok2 := bughouse.ParseSquare(req.To)
	if !ok1 || !ok2 {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "from and to should be squares like e2",
		})
		return
	}
	promo := chess.NoPieceType
	if req.Promotion != "" {
		r, ok := bughouse.ParseRole(req.Promotion)
		if !ok {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error": "unknown promotion piece " + req.Promotion,
			})
			return
		}
		promo = r
	}
	a.dispatch(ctx, session.SubmitMove{From: from, To: to, Promotion: promo})
}

func (a *SessionApi) Drop(ctx *gin.Context) {
	var req dropRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}
	role, ok1 := bughouse.ParseRole(req.Role)
	to, ok2 := bughouse.ParseSquare(req.To)
	if !ok1 || !ok2 {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "role should be a piece letter and to a square like e4",
		})
		return
	}
	a.dispatch(ctx, session.SubmitDrop{Role: role, To: to})
}

func (a *SessionApi) Next(ctx *gin.Context) {
	a.dispatch(ctx, session.NextPuzzle{})
}

func (a *SessionApi) Previous(ctx *gin.Context) {
	a.dispatch(ctx, session.PreviousPuzzle{})
}

func (a *SessionApi) dispatch(ctx *gin.Context, ev session.Event) {
	snap, err := a.Runner.Do(ctx.Request.Context(), ev)
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"error": err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, snap)
}

func (a *SessionApi) SaveSet(ctx *gin.Context) {
	if !a.storage(ctx) {
		return
	}
	name := ctx.Param("name")
	puzzles := a.Runner.Snapshot().Puzzles()
	if err := a.PuzzleRepository.SavePuzzleSet(name, puzzles); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, dao.ErrEmptySet) {
			status = http.StatusConflict
		}
		ctx.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"set":   name,
		"saved": len(puzzles),
	})
}

func (a *SessionApi) LoadSet(ctx *gin.Context) {
	if !a.storage(ctx) {
		return
	}
	puzzles, err := a.PuzzleRepository.LoadPuzzleSet(ctx.Param("name"))
	if errors.Is(err, dao.ErrSetNotFound) {
		ctx.AbortWithStatus(http.StatusNotFound)
		return
	}
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}
	a.dispatch(ctx, session.Load{Puzzles: puzzles})
}

func (a *SessionApi) ListSets(ctx *gin.Context) {
	if !a.storage(ctx) {
		return
	}
	names, err := a.PuzzleRepository.ListPuzzleSets()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"sets": names,
	})
}

func (a *SessionApi) storage(ctx *gin.Context) bool {
	if a.PuzzleRepository == nil {
		ctx.JSON(http.StatusNotImplemented, gin.H{
			"error": "puzzle set storage is not configured",
		})
		return false
	}
	return true
}
