package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"honnef.co/go/id3"
	"honnef.co/go/id3/internal/frametext"
)

type Handler struct {
	maxBody int64
}

func NewHandler(maxBody int64) *Handler {
	return &Handler{maxBody: maxBody}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type FrameFlagsResponse struct {
	PreserveTagAlteration  bool `json:"preserve_tag_alteration"`
	PreserveFileAlteration bool `json:"preserve_file_alteration"`
	ReadOnly               bool `json:"read_only"`
	Grouped                bool `json:"grouped"`
	Compressed             bool `json:"compressed"`
	Encrypted              bool `json:"encrypted"`
}

type FrameResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Size        uint32             `json:"size"`
	Flags       uint16             `json:"flags"`
	FlagDetails FrameFlagsResponse `json:"flag_details"`
	Value       string             `json:"value"`
	Content     []byte             `json:"content"`
}

func frameFlagsResponse(f id3.FrameFlags) FrameFlagsResponse {
	return FrameFlagsResponse{
		PreserveTagAlteration:  f.PreserveTagAlteration(),
		PreserveFileAlteration: f.PreserveFileAlteration(),
		ReadOnly:               f.ReadOnly(),
		Grouped:                f.Grouped(),
		Compressed:             f.Compressed(),
		Encrypted:              f.Encrypted(),
	}
}

type ExtendedResponse struct {
	Size         uint32  `json:"size"`
	Update       bool    `json:"update"`
	CRC          *uint64 `json:"crc,omitempty"`
	CRCValid     *bool   `json:"crc_valid,omitempty"`
	Restrictions *byte   `json:"restrictions,omitempty"`
}

type TagResponse struct {
	Version  string            `json:"version"`
	Flags    byte              `json:"flags"`
	Size     uint32            `json:"size"`
	Padding  int               `json:"padding"`
	Footer   bool              `json:"footer"`
	Extended *ExtendedResponse `json:"extended,omitempty"`
	Frames   []FrameResponse   `json:"frames"`
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readBody returns the tag at the start of the request body and
// everything after it.
func (h *Handler) readBody(c *gin.Context) (tag, rest []byte, ok bool) {
	data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody))
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: err.Error()})
		return nil, nil, false
	}

	tag, rest, err = id3.Split(data)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return nil, nil, false
	}
	return tag, rest, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, id3.ErrFrameIDConflict):
		return http.StatusConflict
	case errors.Is(err, id3.ErrValueOutOfRange):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusUnprocessableEntity
	}
}

// Inspect parses the tag at the start of the body.
func (h *Handler) Inspect(c *gin.Context) {
	buf, _, ok := h.readBody(c)
	if !ok {
		return
	}
	if buf == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no ID3 tag"})
		return
	}

	tag, err := id3.ParseTag(buf)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	resp := TagResponse{
		Version: tag.Header.Version.String(),
		Flags:   byte(tag.Header.Flags),
		Size:    tag.Header.Size,
		Padding: tag.Padding,
		Footer:  tag.Footer != nil,
		Frames:  make([]FrameResponse, 0, len(tag.Frames)),
	}

	if x := tag.Extended; x != nil {
		ext := &ExtendedResponse{Size: x.Size, Update: x.Flags.Update()}
		if x.Flags.CRC() {
			crc := x.CRC
			valid, err := id3.VerifyCRC(buf)
			if err != nil {
				c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
				return
			}
			ext.CRC, ext.CRCValid = &crc, &valid
		}
		if x.Flags.Restrictions() {
			r := byte(x.Restrictions)
			ext.Restrictions = &r
		}
		resp.Extended = ext
	}

	for _, f := range tag.Frames {
		resp.Frames = append(resp.Frames, FrameResponse{
			ID:          string(f.ID),
			Name:        f.ID.Name(),
			Size:        f.Size,
			Flags:       uint16(f.Flags),
			FlagDetails: frameFlagsResponse(f.Flags),
			Value:       frametext.Value(f),
			Content:     f.Content,
		})
	}

	c.JSON(http.StatusOK, resp)
}

// frameFromQuery builds the frame for :id from either the text or the
// hex query parameter.
func frameFromQuery(c *gin.Context) (id3.Frame, error) {
	id := id3.FrameID(c.Param("id"))
	if !id.Valid() {
		return id3.Frame{}, fmt.Errorf("invalid frame ID %q", id)
	}

	var flags uint64
	if s := c.Query("flags"); s != "" {
		var err error
		flags, err = strconv.ParseUint(s, 0, 16)
		if err != nil {
			return id3.Frame{}, fmt.Errorf("flags: %v", err)
		}
	}

	content := frametext.Encode(c.QueryArray("text")...)
	if s, ok := c.GetQuery("hex"); ok {
		b, err := hex.DecodeString(s)
		if err != nil {
			return id3.Frame{}, fmt.Errorf("hex: %v", err)
		}
		content = b
	}

	return id3.MakeFrame(id, content, id3.FrameFlags(flags)), nil
}

func (h *Handler) respond(c *gin.Context, tag, rest []byte) {
	c.Header("X-Tag-Size", strconv.Itoa(len(tag)))
	c.Data(http.StatusOK, "application/octet-stream", append(tag, rest...))
}

// UpsertFrame sets a frame in the tag at the start of the body. Files
// without a tag get a new ID3v2.4 tag. With strict=true, existing
// frames are not replaced.
func (h *Handler) UpsertFrame(c *gin.Context) {
	f, err := frameFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	tag, rest, ok := h.readBody(c)
	if !ok {
		return
	}
	if tag == nil {
		tag = id3.NewTag(id3.Version24)
	}

	if c.Query("strict") == "true" {
		tag, err = id3.InsertFrame(f, tag)
	} else {
		tag, err = id3.UpsertFrame(f, tag)
	}
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	h.respond(c, tag, rest)
}

func (h *Handler) RemoveFrames(c *gin.Context) {
	id := id3.FrameID(c.Param("id"))
	if !id.Valid() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid frame ID %q", id)})
		return
	}

	tag, rest, ok := h.readBody(c)
	if !ok {
		return
	}
	if tag == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no ID3 tag"})
		return
	}

	tag, err := id3.RemoveFrames(id, tag)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	h.respond(c, tag, rest)
}
