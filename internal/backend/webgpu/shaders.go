//go:build windows

package webgpu

// WGSL compute shaders for rasterization.
// Using string constants instead of embed for simplicity.
//
// WGSL has no floating-point atomics, so accumulation shaders deposit
// contributions as 16.16 fixed-point integers via atomicAdd on u32 cells
// (two's-complement wrapping makes signed sums come out right). The Go
// side encodes grids to fixed point before dispatch and decodes after
// readback.

// workgroupSize is the default number of threads per workgroup.
const workgroupSize = 256

// fixedPointScale converts between raster values and the shaders' 16.16
// fixed-point cell representation.
const fixedPointScale = 65536.0

// scatterShader deposits each weight into the single cell (y[i], x[i]).
const scatterShader = `
@group(0) @binding(0) var<storage, read> xs: array<i32>;
@group(0) @binding(1) var<storage, read> ys: array<i32>;
@group(0) @binding(2) var<storage, read> ws: array<f32>;
@group(0) @binding(3) var<storage, read_write> img: array<atomic<u32>>;

struct Params {
    n: u32,
    width: u32,
    scale: f32,
}
@group(0) @binding(4) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let i = global_id.x;
    if (i >= params.n) {
        return;
    }
    let cell = u32(ys[i]) * params.width + u32(xs[i]);
    let v = i32(round(ws[i] * params.scale));
    atomicAdd(&img[cell], bitcast<u32>(v));
}
`

// splatShader distributes each weight over the four cells surrounding
// its continuous coordinate with bilinear weights.
const splatShader = `
@group(0) @binding(0) var<storage, read> pxs: array<i32>;
@group(0) @binding(1) var<storage, read> pys: array<i32>;
@group(0) @binding(2) var<storage, read> dxs: array<f32>;
@group(0) @binding(3) var<storage, read> dys: array<f32>;
@group(0) @binding(4) var<storage, read> ws: array<f32>;
@group(0) @binding(5) var<storage, read_write> img: array<atomic<u32>>;

struct Params {
    n: u32,
    width: u32,
    scale: f32,
}
@group(0) @binding(6) var<uniform> params: Params;

fn deposit(cell: u32, v: f32) {
    atomicAdd(&img[cell], bitcast<u32>(i32(round(v * params.scale))));
}

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let i = global_id.x;
    if (i >= params.n) {
        return;
    }
    let base = u32(pys[i]) * params.width + u32(pxs[i]);
    let dx = dxs[i];
    let dy = dys[i];
    let w = ws[i];
    deposit(base, w * (1.0 - dx) * (1.0 - dy));
    deposit(base + 1u, w * dx * (1.0 - dy));
    deposit(base + params.width, w * (1.0 - dx) * dy);
    deposit(base + params.width + 1u, w * dx * dy);
}
`

// splatGradShader accumulates one gradient channel: the analytic
// derivative of the bilinear basis functions, weighted by the channel's
// x-response w1 and y-response w2.
const splatGradShader = `
@group(0) @binding(0) var<storage, read> pxs: array<i32>;
@group(0) @binding(1) var<storage, read> pys: array<i32>;
@group(0) @binding(2) var<storage, read> dxs: array<f32>;
@group(0) @binding(3) var<storage, read> dys: array<f32>;
@group(0) @binding(4) var<storage, read> w1: array<f32>;
@group(0) @binding(5) var<storage, read> w2: array<f32>;
@group(0) @binding(6) var<storage, read_write> img: array<atomic<u32>>;

struct Params {
    n: u32,
    width: u32,
    scale: f32,
}
@group(0) @binding(7) var<uniform> params: Params;

fn deposit(cell: u32, v: f32) {
    atomicAdd(&img[cell], bitcast<u32>(i32(round(v * params.scale))));
}

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let i = global_id.x;
    if (i >= params.n) {
        return;
    }
    let base = u32(pys[i]) * params.width + u32(pxs[i]);
    let dx = dxs[i];
    let dy = dys[i];
    let a = w1[i];
    let b = w2[i];
    deposit(base, a * (-(1.0 - dy)) + b * (-(1.0 - dx)));
    deposit(base + 1u, a * (1.0 - dy) + b * (-dx));
    deposit(base + params.width, a * (-dy) + b * (1.0 - dx));
    deposit(base + params.width + 1u, a * dy + b * dx);
}
`

// sampleShader gathers one bilinearly interpolated value per coordinate.
// Pure reads, no atomics needed.
const sampleShader = `
@group(0) @binding(0) var<storage, read> pxs: array<i32>;
@group(0) @binding(1) var<storage, read> pys: array<i32>;
@group(0) @binding(2) var<storage, read> dxs: array<f32>;
@group(0) @binding(3) var<storage, read> dys: array<f32>;
@group(0) @binding(4) var<storage, read> img: array<f32>;
@group(0) @binding(5) var<storage, read_write> out: array<f32>;

struct Params {
    n: u32,
    width: u32,
    scale: f32,
}
@group(0) @binding(6) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let i = global_id.x;
    if (i >= params.n) {
        return;
    }
    let base = u32(pys[i]) * params.width + u32(pxs[i]);
    let dx = dxs[i];
    let dy = dys[i];
    out[i] = img[base] * (1.0 - dx) * (1.0 - dy)
        + img[base + 1u] * dx * (1.0 - dy)
        + img[base + params.width] * (1.0 - dx) * dy
        + img[base + params.width + 1u] * dx * dy;
}
`
