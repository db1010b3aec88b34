package window

import (
	"errors"

	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nmage/materials"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// EnablePostShader configures the custom post-processing pass (spec
// §4.6 Phase F): all cell passes render into an off-screen framebuffer
// of the current client size, then a full-screen quad draws through the
// user shader with the Shadertoy-style uniform set.
func (b *GLBackend) EnablePostShader(shaderPath string) error {

	b.postMat = materials.NewMaterial("postShader", shaderPath)

	gl.GenFramebuffers(1, &b.postFBO)
	if b.postFBO == 0 {
		return errors.New("failed to create post-process framebuffer")
	}
	b.resizePostTarget(b.screenW, b.screenH)
	return nil
}

// PostShaderEnabled reports whether a custom shader pass is configured.
func (b *GLBackend) PostShaderEnabled() bool {
	return b.postFBO != 0
}

func (b *GLBackend) resizePostTarget(w, h int32) {

	if w <= 0 || h <= 0 {
		return
	}

	if b.postTex != 0 {
		gl.DeleteTextures(1, &b.postTex)
	}
	if b.postDepth != 0 {
		gl.DeleteRenderbuffers(1, &b.postDepth)
	}

	gl.GenTextures(1, &b.postTex)
	gl.BindTexture(gl.TEXTURE_2D, b.postTex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenRenderbuffers(1, &b.postDepth)
	gl.BindRenderbuffer(gl.RENDERBUFFER, b.postDepth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, w, h)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)

	gl.BindFramebuffer(gl.FRAMEBUFFER, b.postFBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, b.postTex, 0)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, b.postDepth)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// BeginPostPass redirects subsequent draws into the off-screen target.
// No-op when no custom shader is configured.
func (b *GLBackend) BeginPostPass() {
	if b.postFBO == 0 {
		return
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, b.postFBO)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// EndPostPass draws the off-screen target through the user shader onto
// the default framebuffer, feeding the conventional uniform set:
// iResolution, iTime, iTimeDelta, iFrame, iChannel0,
// iChannelResolution[0].
func (b *GLBackend) EndPostPass(dt float32) {

	if b.postFBO == 0 {
		return
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	b.postTime += dt
	b.postFrame++

	res := gglm.NewVec3(float32(b.screenW), float32(b.screenH), 1)
	b.postMat.DiffuseTex = b.postTex
	b.postMat.SetUnifVec3("iResolution", res)
	b.postMat.SetUnifFloat32("iTime", b.postTime)
	b.postMat.SetUnifFloat32("iTimeDelta", dt)
	b.postMat.SetUnifInt32("iFrame", b.postFrame)
	b.postMat.SetUnifVec3("iChannelResolution[0]", res)

	b.postMat.Bind()
	gl.BindVertexArray(b.CellMesh.Buf.VAOID)
	gl.Disable(gl.DEPTH_TEST)
	gl.DrawElements(gl.TRIANGLES, b.CellMesh.Buf.IndexBufCount, gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.Enable(gl.DEPTH_TEST)
}
