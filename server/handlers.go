package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/forestrie/go-mmrproofs/indexer"
	"github.com/forestrie/go-mmrproofs/proofs"
	"github.com/forestrie/go-mmrproofs/report"
	"github.com/gin-gonic/gin"
)

var ErrBadRequest = errors.New("bad request")

type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetCheckpoint serves the checkpoint at the height in the path
func (s *Server) GetCheckpoint(c *gin.Context) {
	height, err := parseHeight("height", c.Param("height"))
	if err != nil {
		s.fail(c, err)
		return
	}
	s.run(c, height, nil)
}

// GetProof serves the checkpoint at the height query parameter, with the
// proof of the leaf at the target height in the path.
func (s *Server) GetProof(c *gin.Context) {
	target, err := parseHeight("target", c.Param("target"))
	if err != nil {
		s.fail(c, err)
		return
	}
	height, err := parseHeight("height", c.Query("height"))
	if err != nil {
		s.fail(c, err)
		return
	}
	s.run(c, height, &target)
}

func (s *Server) run(c *gin.Context, height uint64, target *uint64) {
	format := c.DefaultQuery("format", s.opts.format)
	if format != report.FormatJSON && format != report.FormatCBOR {
		s.fail(c, fmt.Errorf("%w: %w: %q", ErrBadRequest, report.ErrUnknownFormat, format))
		return
	}

	rpt, err := s.pipeline.Run(c.Request.Context(), height, target)
	if err != nil {
		s.fail(c, err)
		return
	}

	if format == report.FormatCBOR {
		data, err := report.MarshalCBOR(rpt)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.Data(http.StatusOK, report.ContentType(format), data)
		return
	}
	c.JSON(http.StatusOK, rpt)
}

func (s *Server) fail(c *gin.Context, err error) {
	status := StatusFor(err)
	s.log.Infof("%s %s: %d: %v", c.Request.Method, c.Request.URL.Path, status, err)
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

// StatusFor maps a pipeline error to the http status reported for it
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, proofs.ErrInvalidHeight),
		errors.Is(err, proofs.ErrInvalidVerificationTarget):
		return http.StatusBadRequest
	case errors.Is(err, indexer.ErrMissingNode):
		return http.StatusNotFound
	case errors.Is(err, indexer.ErrTimeout):
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}

func parseHeight(name, value string) (uint64, error) {
	if value == "" {
		return 0, fmt.Errorf("%w: %s is required", ErrBadRequest, name)
	}
	h, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a block height", ErrBadRequest, name, value)
	}
	return h, nil
}
