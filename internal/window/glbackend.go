package window

import (
	"errors"

	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nmage/buffers"
	"github.com/bloeys/nmage/materials"
	"github.com/bloeys/nmage/meshes"
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/phantty/phantty/internal/glyph"
	"github.com/phantty/phantty/internal/render"
)

// Instanced-attribute float counts per cell quad. The fg layout matches
// CellFg field for field: gridPos(2) + glyphOffset(2) + glyphSize(2) +
// uvRect(4) + color(3).
const (
	floatsPerBgCell = 5
	floatsPerFgCell = 13
)

// GLBackend is the concrete render.Backend for one window's OpenGL
// context: the atlas textures, the instanced cell buffers, and the
// three cell materials (bg, grayscale fg, color fg). All methods must
// run on the thread that owns the GL context.
type GLBackend struct {
	CellMesh *meshes.Mesh

	BgMat      *materials.Material
	FgMat      *materials.Material
	ColorFgMat *materials.Material

	bgBuf      buffers.Buffer
	fgBuf      buffers.Buffer
	colorFgBuf buffers.Buffer

	bgVBO []float32
	fgVBO []float32

	grayTexID  uint32
	graySize   int
	colorTexID uint32
	colorSize  int

	// cell size in pixels; positions instances on the grid.
	cellW, cellH float32

	screenW, screenH int32

	// optional post-processing pass (spec §4.6 Phase F). Zero IDs mean
	// no custom shader is configured.
	postMat   *materials.Material
	postFBO   uint32
	postTex   uint32
	postDepth uint32
	postFrame int32
	postTime  float32
}

// NewGLBackend builds the cell quad mesh, the three materials, and the
// instanced buffers sized for render.MaxCells cells each. Must be
// called with a live GL context current.
func NewGLBackend(quadModelPath, bgShaderPath, fgShaderPath, colorFgShaderPath string, cellW, cellH float32) (*GLBackend, error) {

	b := &GLBackend{
		bgVBO: make([]float32, floatsPerBgCell*render.MaxCells),
		fgVBO: make([]float32, floatsPerFgCell*render.MaxCells),
		cellW: cellW,
		cellH: cellH,
	}

	mesh, err := meshes.NewMesh("cellQuad", quadModelPath, 0)
	if err != nil {
		return nil, err
	}
	b.CellMesh = mesh

	b.BgMat = materials.NewMaterial("cellBg", bgShaderPath)
	b.FgMat = materials.NewMaterial("cellFg", fgShaderPath)
	b.ColorFgMat = materials.NewMaterial("cellColorFg", colorFgShaderPath)

	if err := b.setupInstancedBuf(&b.bgBuf, b.bgVBO,
		buffers.Element{ElementType: buffers.DataTypeVec2}, // grid pos
		buffers.Element{ElementType: buffers.DataTypeVec3}, // color
	); err != nil {
		return nil, err
	}

	if err := b.setupInstancedBuf(&b.fgBuf, b.fgVBO,
		buffers.Element{ElementType: buffers.DataTypeVec2}, // grid pos
		buffers.Element{ElementType: buffers.DataTypeVec2}, // glyph offset
		buffers.Element{ElementType: buffers.DataTypeVec2}, // glyph size
		buffers.Element{ElementType: buffers.DataTypeVec4}, // uv rect
		buffers.Element{ElementType: buffers.DataTypeVec3}, // color
	); err != nil {
		return nil, err
	}

	if err := b.setupInstancedBuf(&b.colorFgBuf, b.fgVBO,
		buffers.Element{ElementType: buffers.DataTypeVec2},
		buffers.Element{ElementType: buffers.DataTypeVec2},
		buffers.Element{ElementType: buffers.DataTypeVec2},
		buffers.Element{ElementType: buffers.DataTypeVec4},
		buffers.Element{ElementType: buffers.DataTypeVec3},
	); err != nil {
		return nil, err
	}

	return b, nil
}

// setupInstancedBuf attaches one instanced VBO to the cell mesh's VAO,
// with attributes starting at location 1 (location 0 is the quad's
// vertex position). Multiple VBOs under one VAO, one VBO for vertex
// data and one per instanced layout.
func (b *GLBackend) setupInstancedBuf(buf *buffers.Buffer, vbo []float32, layout ...buffers.Element) error {

	buf.VAOID = b.CellMesh.Buf.VAOID

	gl.GenBuffers(1, &buf.BufID)
	if buf.BufID == 0 {
		return errors.New("failed to create OpenGL VBO buffer")
	}

	buf.SetLayout(layout...)

	buf.Bind()
	gl.BindBuffer(gl.ARRAY_BUFFER, buf.BufID)

	elems := buf.GetLayout()
	for i, ele := range elems {
		loc := uint32(i + 1)
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribPointer(loc, ele.ElementType.CompCount(), ele.ElementType.GLType(), false, buf.Stride, gl.PtrOffset(ele.Offset))
		gl.VertexAttribDivisor(loc, 1)
	}

	// Fill with zeros and set to dynamic so per-frame uploads can use
	// the faster bufferSubData
	gl.BufferData(gl.ARRAY_BUFFER, len(vbo)*4, gl.Ptr(&vbo[0]), buffers.BufUsage_Dynamic.ToGL())

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	buf.UnBind()

	// Reset mesh layout because SetLayout over-wrote vertex attribute 0
	b.CellMesh.Buf.SetLayout(buffers.Element{ElementType: buffers.DataTypeVec3})
	return nil
}

// SetScreenSize updates the orthographic projection on all cell
// materials so instances can be positioned in pixel space.
func (b *GLBackend) SetScreenSize(w, h int32) {

	b.screenW, b.screenH = w, h

	projMtx := gglm.Ortho(0, float32(w), float32(h), 0, 0.1, 20)
	viewMtx := gglm.LookAt(gglm.NewVec3(0, 0, -10), gglm.NewVec3(0, 0, 0), gglm.NewVec3(0, 1, 0))
	projViewMtx := projMtx.Mul(viewMtx)

	b.BgMat.SetUnifMat4("projViewMat", &projViewMtx.Mat4)
	b.FgMat.SetUnifMat4("projViewMat", &projViewMtx.Mat4)
	b.ColorFgMat.SetUnifMat4("projViewMat", &projViewMtx.Mat4)

	cellSize := gglm.NewVec2(b.cellW, b.cellH)
	b.BgMat.SetUnifVec2("cellSize", cellSize)
	b.FgMat.SetUnifVec2("cellSize", cellSize)
	b.ColorFgMat.SetUnifVec2("cellSize", cellSize)

	if b.postFBO != 0 {
		b.resizePostTarget(w, h)
	}
}

// SetCellSize updates the pixel size of one grid cell (font reload).
func (b *GLBackend) SetCellSize(w, h float32) {
	b.cellW, b.cellH = w, h
	if b.screenW > 0 {
		b.SetScreenSize(b.screenW, b.screenH)
	}
}

// SyncAtlas is Phase E's GPU half: full sub-image upload when the atlas
// changed in place, destroy-and-recreate when it grew (spec §4.6).
func (b *GLBackend) SyncAtlas(sync render.AtlasSync) {

	if !sync.Changed {
		return
	}

	texID, size := &b.grayTexID, &b.graySize
	internalFmt, pixelFmt := int32(gl.R8), uint32(gl.RED)
	if sync.Format == glyph.FormatColor {
		texID, size = &b.colorTexID, &b.colorSize
		internalFmt, pixelFmt = gl.RGBA8, gl.BGRA
	}

	grown := *size != sync.Size
	if grown && *texID != 0 {
		gl.DeleteTextures(1, texID)
		*texID = 0
	}

	if *texID == 0 {
		gl.GenTextures(1, texID)
		gl.BindTexture(gl.TEXTURE_2D, *texID)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
		gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
		gl.TexImage2D(gl.TEXTURE_2D, 0, internalFmt, int32(sync.Size), int32(sync.Size), 0, pixelFmt, gl.UNSIGNED_BYTE, gl.Ptr(&sync.Pixels[0]))
		*size = sync.Size
	} else {
		gl.BindTexture(gl.TEXTURE_2D, *texID)
		gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(sync.Size), int32(sync.Size), pixelFmt, gl.UNSIGNED_BYTE, gl.Ptr(&sync.Pixels[0]))
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if sync.Format == glyph.FormatColor {
		b.ColorFgMat.DiffuseTex = *texID
	} else {
		b.FgMat.DiffuseTex = *texID
	}
}

// DrawBg submits the background-quad pass.
func (b *GLBackend) DrawBg(cells []render.CellBg) {
	n := b.packBgCells(cells)
	b.drawInstanced(&b.bgBuf, b.BgMat, n, floatsPerBgCell)
}

// DrawFg submits the grayscale glyph pass with straight-alpha blending.
func (b *GLBackend) DrawFg(cells []render.CellFg) {
	n := b.packFgCells(cells)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	b.drawInstanced(&b.fgBuf, b.FgMat, n, floatsPerFgCell)
}

// DrawColorFg submits the color-emoji pass with premultiplied-alpha
// blending for the duration of this pass only, restored afterward
// (spec §4.6 Phase F).
func (b *GLBackend) DrawColorFg(cells []render.CellFg) {
	n := b.packFgCells(cells)
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	b.drawInstanced(&b.colorFgBuf, b.ColorFgMat, n, floatsPerFgCell)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
}

// DrawCursorOverlay draws the hollow/bar/underline cursor quads after
// everything else, so they sit on top of the cell's own foreground.
func (b *GLBackend) DrawCursorOverlay(cells []render.CellBg) {
	n := b.packBgCells(cells)
	b.drawInstanced(&b.bgBuf, b.BgMat, n, floatsPerBgCell)
}

func (b *GLBackend) packBgCells(cells []render.CellBg) int32 {

	if len(cells) > render.MaxCells {
		cells = cells[:render.MaxCells]
	}
	for i, c := range cells {
		o := i * floatsPerBgCell
		b.bgVBO[o+0] = float32(c.GridCol)
		b.bgVBO[o+1] = float32(c.GridRow)
		b.bgVBO[o+2] = c.R
		b.bgVBO[o+3] = c.G
		b.bgVBO[o+4] = c.B
	}
	return int32(len(cells))
}

func (b *GLBackend) packFgCells(cells []render.CellFg) int32 {

	if len(cells) > render.MaxCells {
		cells = cells[:render.MaxCells]
	}
	for i, c := range cells {
		o := i * floatsPerFgCell
		b.fgVBO[o+0] = float32(c.GridCol)
		b.fgVBO[o+1] = float32(c.GridRow)
		b.fgVBO[o+2] = float32(c.GlyphOffsetX)
		b.fgVBO[o+3] = float32(c.GlyphOffsetY)
		b.fgVBO[o+4] = float32(c.GlyphW)
		b.fgVBO[o+5] = float32(c.GlyphH)
		b.fgVBO[o+6] = c.UVLeft
		b.fgVBO[o+7] = c.UVTop
		b.fgVBO[o+8] = c.UVRight
		b.fgVBO[o+9] = c.UVBottom
		b.fgVBO[o+10] = c.R
		b.fgVBO[o+11] = c.G
		b.fgVBO[o+12] = c.B
	}
	return int32(len(cells))
}

func (b *GLBackend) drawInstanced(buf *buffers.Buffer, mat *materials.Material, count, floatsPerCell int32) {

	if count == 0 {
		return
	}

	vbo := b.bgVBO
	if floatsPerCell == floatsPerFgCell {
		vbo = b.fgVBO
	}

	gl.BindVertexArray(buf.VAOID)
	gl.BindBuffer(gl.ARRAY_BUFFER, buf.BufID)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, int(count*floatsPerCell)*4, gl.Ptr(&vbo[:count*floatsPerCell][0]))
	mat.Bind()

	// Nearby characters must not occlude each other
	gl.Disable(gl.DEPTH_TEST)
	gl.DrawElementsInstanced(gl.TRIANGLES, b.CellMesh.Buf.IndexBufCount, gl.UNSIGNED_INT, gl.PtrOffset(0), count)
	gl.Enable(gl.DEPTH_TEST)
}

var _ render.Backend = (*GLBackend)(nil)
