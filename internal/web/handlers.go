package web

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/spacesedan/reviewcloud/internal/analysis"
	"github.com/spacesedan/reviewcloud/internal/ingest"
	"github.com/spacesedan/reviewcloud/internal/insight"
	"github.com/spacesedan/reviewcloud/internal/models"
	"github.com/spacesedan/reviewcloud/internal/processing"
	"github.com/spacesedan/reviewcloud/internal/store"
)

// runForm is the configuration form posted to start a run.
type runForm struct {
	ReviewColumn      string `form:"review_column"`
	MaxWords          int    `form:"max_words,default=80"`
	MinWordLength     int    `form:"min_word_length,default=2"`
	TopKeywords       int    `form:"top_keywords,default=20"`
	Stopwords         string `form:"stopwords"`
	PositiveThreshold int    `form:"positive_threshold,default=4"`
	NegativeThreshold int    `form:"negative_threshold,default=2"`
	APIKey            string `form:"api_key"`
}

func (f runForm) config() models.RunConfig {
	return models.RunConfig{
		MaxWords:          f.MaxWords,
		MinWordLength:     f.MinWordLength,
		TopKeywords:       f.TopKeywords,
		ExtraStopwords:    models.ParseStopwords(f.Stopwords),
		PositiveThreshold: f.PositiveThreshold,
		NegativeThreshold: f.NegativeThreshold,
	}
}

func (s *Server) index(c *gin.Context) {
	s.renderIndex(c, http.StatusOK, "")
}

func (s *Server) renderIndex(c *gin.Context, status int, errMsg string) {
	c.HTML(status, "index.html", gin.H{
		"Error":     errMsg,
		"MaxUpload": humanize.IBytes(uint64(s.cfg.MaxUploadBytes)),
	})
}

func (s *Server) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		s.renderIndex(c, http.StatusBadRequest, "파일을 선택해주세요.")
		return
	}
	f, err := fh.Open()
	if err != nil {
		s.renderIndex(c, http.StatusBadRequest, "파일을 읽을 수 없습니다.")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		s.renderIndex(c, http.StatusBadRequest, "파일을 읽을 수 없습니다.")
		return
	}

	table, err := ingest.Load(fh.Filename, data)
	if err != nil {
		slog.Warn("[Web] Upload rejected",
			slog.String("file", fh.Filename),
			slog.String("error", err.Error()))
		s.renderIndex(c, http.StatusBadRequest, loadErrorMessage(err))
		return
	}

	id := uuid.NewString()
	if err := s.store.Put(c.Request.Context(), store.UploadKey(id), store.Artifact{Name: fh.Filename, Data: data}); err != nil {
		slog.Error("[Web] Failed to keep upload",
			slog.String("error", err.Error()))
		s.renderIndex(c, http.StatusInternalServerError, "업로드를 저장하지 못했습니다.")
		return
	}

	slog.Info("[Web] Upload accepted",
		slog.String("upload_id", id),
		slog.String("file", fh.Filename),
		slog.Int("rows", table.Len()))
	s.renderConfigure(c, http.StatusOK, id, fh.Filename, table, ingest.ResolveColumns(table.Columns), models.DefaultRunConfig(), "")
}

func (s *Server) renderConfigure(c *gin.Context, status int, id, name string, table *ingest.Table, cols ingest.Resolution, cfg models.RunConfig, errMsg string) {
	c.HTML(status, "configure.html", gin.H{
		"UploadID":   id,
		"FileName":   name,
		"Rows":       table.Len(),
		"AllColumns": table.Columns,
		"Columns":    cols,
		"Config":     cfg,
		"Error":      errMsg,
	})
}

func (s *Server) run(c *gin.Context) {
	ctx := c.Request.Context()
	uploadID := c.Param("id")
	upload, err := s.store.Get(ctx, store.UploadKey(uploadID))
	if errors.Is(err, store.ErrNotFound) {
		s.renderIndex(c, http.StatusNotFound, "업로드가 만료되었습니다. 파일을 다시 올려주세요.")
		return
	}
	if err != nil {
		s.renderIndex(c, http.StatusInternalServerError, "업로드를 불러오지 못했습니다.")
		return
	}
	table, err := ingest.Load(upload.Name, upload.Data)
	if err != nil {
		s.renderIndex(c, http.StatusBadRequest, loadErrorMessage(err))
		return
	}

	var form runForm
	if err := c.ShouldBind(&form); err != nil {
		s.renderConfigure(c, http.StatusBadRequest, uploadID, upload.Name, table, ingest.ResolveColumns(table.Columns), models.DefaultRunConfig(), "설정 값을 확인해주세요.")
		return
	}

	cols := ingest.ResolveColumns(table.Columns)
	if form.ReviewColumn != "" {
		if !slices.Contains(table.Columns, form.ReviewColumn) {
			s.renderConfigure(c, http.StatusBadRequest, uploadID, upload.Name, table, cols, form.config(), "선택한 컬럼이 파일에 없습니다.")
			return
		}
		cols = cols.WithReview(form.ReviewColumn)
	}
	cfg := form.config()
	if cols.NeedsReviewSelection {
		s.renderConfigure(c, http.StatusBadRequest, uploadID, upload.Name, table, cols, cfg, "리뷰 컬럼을 선택해주세요.")
		return
	}
	if err := cfg.Validate(); err != nil {
		s.renderConfigure(c, http.StatusBadRequest, uploadID, upload.Name, table, cols, models.DefaultRunConfig(), err.Error())
		return
	}

	runID := uuid.NewString()
	outcome, err := s.service.Run(ctx, analysis.Request{
		Table:   table,
		Columns: cols,
		Config:  cfg,
		APIKey:  form.APIKey,
	}, func(stage processing.Stage) {
		slog.Debug("[Web] Run progress",
			slog.String("run_id", runID),
			slog.String("stage", stage.String()),
			slog.Int("percent", stage.Percent()))
	})
	if err != nil {
		s.renderConfigure(c, http.StatusBadRequest, uploadID, upload.Name, table, cols, cfg, err.Error())
		return
	}

	for _, a := range outcome.Artifacts() {
		if err := s.store.Put(ctx, store.ArtifactKey(runID, a.Name), a); err != nil {
			slog.Error("[Web] Failed to keep artifact",
				slog.String("run_id", runID),
				slog.String("name", a.Name),
				slog.String("error", err.Error()))
		}
	}

	var reportHTML template.HTML
	var reportErr string
	if outcome.Report != nil {
		// RenderHTML output is sanitized.
		reportHTML = template.HTML(outcome.Report.HTML)
	} else if outcome.ReportErr != nil {
		reportErr = insight.UserMessage(outcome.ReportErr)
	}

	c.HTML(http.StatusOK, "results.html", gin.H{
		"RunID":       runID,
		"Outcome":     outcome,
		"ReportHTML":  reportHTML,
		"ReportError": reportErr,
		"ReportFile":  insight.REPORT_FILE_NAME,
	})
}

func (s *Server) download(c *gin.Context) {
	a, err := s.store.Get(c.Request.Context(), store.ArtifactKey(c.Param("id"), c.Param("name")))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found or expired"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load file"})
		return
	}
	if c.Query("download") != "" {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(a.Name)))
	}
	c.Data(http.StatusOK, a.ContentType, a.Data)
}

func loadErrorMessage(err error) string {
	switch {
	case errors.Is(err, ingest.ErrUnsupportedFormat):
		return "지원하지 않는 파일 형식입니다. .xlsx 또는 .csv 파일을 올려주세요."
	case errors.Is(err, ingest.ErrNoHeader):
		return "파일에 헤더 행이 없습니다."
	default:
		return fmt.Sprintf("파일을 읽지 못했습니다: %v", err)
	}
}
