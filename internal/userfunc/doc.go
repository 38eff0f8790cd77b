// Package userfunc implements the native user functions shipped with born-ext:
//
//   - UserTimes (OpName "UserTimesFunction"): a user-level matrix product
//     out = left @ right with hand-written gradients.
//   - BinMul2A1B (OpName "BinMul2A1B"): binary GEMM with 1-bit weights and 2-bit
//     activations, computed with a bit-packed popcount kernel.
//
// Both take the left operand (weights, [M, K]) first and the right operand
// (activations, [K, N]) second and produce an [M, N] output.
package userfunc
