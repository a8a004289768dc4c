//go:build windows

package webgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-webgpu/webgpu/wgpu"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/evframe/internal/grid"
)

// ScatterAdd accumulates ws into img at integer cells (ys[i], xs[i]).
// Bounds are validated on the CPU before dispatch; a failure carries the
// batch's coordinate bounds like the CPU backend's.
func (b *Backend) ScatterAdd(img *grid.Grid, xs, ys, ws []float64) error {
	if len(xs) != len(ys) || len(xs) != len(ws) {
		panic(fmt.Sprintf("scatteradd: length mismatch: xs=%d ys=%d ws=%d", len(xs), len(ys), len(ws)))
	}
	if len(xs) == 0 {
		return nil
	}

	size := img.Size()
	ixs := make([]int, len(xs))
	iys := make([]int, len(ys))
	for i := range xs {
		x, y := int(xs[i]), int(ys[i])
		if x < 0 || x >= size.W || y < 0 || y >= size.H {
			return &grid.RangeError{
				Size: size,
				MinX: floats.Min(xs), MaxX: floats.Max(xs),
				MinY: floats.Min(ys), MaxY: floats.Max(ys),
				N: len(xs),
			}
		}
		ixs[i], iys[i] = x, y
	}

	bufX := b.createBuffer(int32Bytes(ixs), wgpu.BufferUsageStorage)
	defer bufX.Release()
	bufY := b.createBuffer(int32Bytes(iys), wgpu.BufferUsageStorage)
	defer bufY.Release()
	bufW := b.createBuffer(float32Bytes(ws), wgpu.BufferUsageStorage)
	defer bufW.Release()

	return b.runAccum("scatter", scatterShader, img, len(xs), bufX, bufY, bufW)
}

// Splat distributes ws over the four cells surrounding each continuous
// coordinate. GPU failures are programmer/environment errors here and
// panic with context, matching the CPU backend's contract.
func (b *Backend) Splat(img *grid.Grid, pxs, pys []int, dxs, dys, ws []float64) {
	if len(pxs) == 0 {
		return
	}

	bufPX := b.createBuffer(int32Bytes(pxs), wgpu.BufferUsageStorage)
	defer bufPX.Release()
	bufPY := b.createBuffer(int32Bytes(pys), wgpu.BufferUsageStorage)
	defer bufPY.Release()
	bufDX := b.createBuffer(float32Bytes(dxs), wgpu.BufferUsageStorage)
	defer bufDX.Release()
	bufDY := b.createBuffer(float32Bytes(dys), wgpu.BufferUsageStorage)
	defer bufDY.Release()
	bufW := b.createBuffer(float32Bytes(ws), wgpu.BufferUsageStorage)
	defer bufW.Release()

	if err := b.runAccum("splat", splatShader, img, len(pxs), bufPX, bufPY, bufDX, bufDY, bufW); err != nil {
		panic(fmt.Sprintf("webgpu splat: %v", err))
	}
}

// SplatDerivative accumulates the analytic bilinear derivative into every
// channel of dst, one dispatch per channel over shared coordinate buffers.
func (b *Backend) SplatDerivative(dst *grid.Stack, pxs, pys []int, dxs, dys []float64, w1, w2 [][]float64) {
	if len(w1) != dst.Channels() || len(w2) != dst.Channels() {
		panic(fmt.Sprintf("splatderivative: %d channels, got %d x-responses and %d y-responses",
			dst.Channels(), len(w1), len(w2)))
	}
	if len(pxs) == 0 {
		return
	}

	bufPX := b.createBuffer(int32Bytes(pxs), wgpu.BufferUsageStorage)
	defer bufPX.Release()
	bufPY := b.createBuffer(int32Bytes(pys), wgpu.BufferUsageStorage)
	defer bufPY.Release()
	bufDX := b.createBuffer(float32Bytes(dxs), wgpu.BufferUsageStorage)
	defer bufDX.Release()
	bufDY := b.createBuffer(float32Bytes(dys), wgpu.BufferUsageStorage)
	defer bufDY.Release()

	for c := 0; c < dst.Channels(); c++ {
		bufW1 := b.createBuffer(float32Bytes(w1[c]), wgpu.BufferUsageStorage)
		bufW2 := b.createBuffer(float32Bytes(w2[c]), wgpu.BufferUsageStorage)
		err := b.runAccum("splatgrad", splatGradShader, dst.Channel(c), len(pxs),
			bufPX, bufPY, bufDX, bufDY, bufW1, bufW2)
		bufW1.Release()
		bufW2.Release()
		if err != nil {
			panic(fmt.Sprintf("webgpu splatderivative: channel %d: %v", c, err))
		}
	}
}

// Sample gathers one bilinearly interpolated value per event from img.
func (b *Backend) Sample(img *grid.Grid, pxs, pys []int, dxs, dys []float64) []float64 {
	out := make([]float64, len(pxs))
	if len(pxs) == 0 {
		return out
	}

	bufPX := b.createBuffer(int32Bytes(pxs), wgpu.BufferUsageStorage)
	defer bufPX.Release()
	bufPY := b.createBuffer(int32Bytes(pys), wgpu.BufferUsageStorage)
	defer bufPY.Release()
	bufDX := b.createBuffer(float32Bytes(dxs), wgpu.BufferUsageStorage)
	defer bufDX.Release()
	bufDY := b.createBuffer(float32Bytes(dys), wgpu.BufferUsageStorage)
	defer bufDY.Release()
	bufImg := b.createBuffer(float32Bytes(img.Data()), wgpu.BufferUsageStorage)
	defer bufImg.Release()

	outSize := uint64(4 * len(pxs))
	bufOut := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc,
		Size:  outSize,
	})
	defer bufOut.Release()

	bufParams := b.createUniformBuffer(paramsBytes(len(pxs), img.Size().W))
	defer bufParams.Release()

	err := b.dispatch("sample", sampleShader, len(pxs), []*wgpu.Buffer{
		bufPX, bufPY, bufDX, bufDY, bufImg, bufOut, bufParams,
	}, []uint64{
		uint64(4 * len(pxs)), uint64(4 * len(pxs)), uint64(4 * len(pxs)), uint64(4 * len(pxs)),
		uint64(4 * len(img.Data())), outSize, 16,
	})
	if err != nil {
		panic(fmt.Sprintf("webgpu sample: %v", err))
	}

	raw, err := b.readBuffer(bufOut, outSize)
	if err != nil {
		panic(fmt.Sprintf("webgpu sample: readback: %v", err))
	}
	for i := range out {
		out[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:])))
	}
	return out
}

// runAccum uploads img as fixed-point atomics, dispatches an accumulation
// shader with the given event buffers, and folds the result back into img.
func (b *Backend) runAccum(name, code string, img *grid.Grid, n int, eventBufs ...*wgpu.Buffer) error {
	imgBytes := fixedPointBytes(img.Data())
	imgSize := uint64(len(imgBytes))
	bufImg := b.createBuffer(imgBytes, wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufImg.Release()

	bufParams := b.createUniformBuffer(paramsBytes(n, img.Size().W))
	defer bufParams.Release()

	bufs := make([]*wgpu.Buffer, 0, len(eventBufs)+2)
	sizes := make([]uint64, 0, len(eventBufs)+2)
	for _, eb := range eventBufs {
		bufs = append(bufs, eb)
		sizes = append(sizes, uint64(4*n))
	}
	bufs = append(bufs, bufImg, bufParams)
	sizes = append(sizes, imgSize, 16)

	if err := b.dispatch(name, code, n, bufs, sizes); err != nil {
		return err
	}

	raw, err := b.readBuffer(bufImg, imgSize)
	if err != nil {
		return fmt.Errorf("%s: readback: %w", name, err)
	}
	fixedPointInto(img.Data(), raw)
	return nil
}

// dispatch runs one compute pass of ceil(n/workgroupSize) workgroups with
// the given buffers bound in order.
func (b *Backend) dispatch(name, code string, n int, bufs []*wgpu.Buffer, sizes []uint64) error {
	shader := b.compileShader(name, code)
	pipeline := b.getOrCreatePipeline(name, shader)

	entries := make([]wgpu.BindGroupEntry, len(bufs))
	for i, buf := range bufs {
		//nolint:gosec // G115: binding index is a small non-negative int
		entries[i] = wgpu.BufferBindingEntry(uint32(i), buf, 0, sizes[i])
	}
	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, entries)
	defer bindGroup.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)
	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)
	//nolint:gosec // G115: workgroup count is non-negative
	workgroups := uint32((n + workgroupSize - 1) / workgroupSize)
	computePass.DispatchWorkgroups(workgroups, 1, 1)
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)
	return nil
}

// int32Bytes encodes ints as little-endian i32s for GPU upload.
func int32Bytes(xs []int) []byte {
	out := make([]byte, 4*len(xs))
	for i, x := range xs {
		//nolint:gosec // G115: coordinates fit in i32 by construction
		binary.LittleEndian.PutUint32(out[4*i:], uint32(int32(x)))
	}
	return out
}

// float32Bytes encodes float64s as little-endian f32s for GPU upload.
// The GPU path is single precision, as WGSL storage buffers require.
func float32Bytes(xs []float64) []byte {
	out := make([]byte, 4*len(xs))
	for i, x := range xs {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(float32(x)))
	}
	return out
}

// fixedPointBytes encodes grid values as 16.16 fixed-point i32s.
func fixedPointBytes(data []float64) []byte {
	out := make([]byte, 4*len(data))
	for i, v := range data {
		fixed := int32(math.Round(v * fixedPointScale))
		binary.LittleEndian.PutUint32(out[4*i:], uint32(fixed))
	}
	return out
}

// fixedPointInto decodes 16.16 fixed-point i32s back into grid values.
func fixedPointInto(dst []float64, raw []byte) {
	for i := range dst {
		fixed := int32(binary.LittleEndian.Uint32(raw[4*i:]))
		dst[i] = float64(fixed) / fixedPointScale
	}
}

// paramsBytes packs the accumulation params uniform (n, width, scale)
// into a 16-byte aligned block.
func paramsBytes(n, width int) []byte {
	out := make([]byte, 16)
	//nolint:gosec // G115: batch and grid sizes are non-negative
	binary.LittleEndian.PutUint32(out[0:4], uint32(n))
	//nolint:gosec // G115: batch and grid sizes are non-negative
	binary.LittleEndian.PutUint32(out[4:8], uint32(width))
	binary.LittleEndian.PutUint32(out[8:12], math.Float32bits(fixedPointScale))
	return out
}
