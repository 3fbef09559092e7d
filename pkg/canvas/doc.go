// Package canvas renders pages in memory.
//
// Images are decoded with disintegration/imaging (ftrvxmtrx/tga for TGA
// textures), scaled with nearest neighbour sampling to keep pixel art
// sharp and composited over the page. Text is drawn with gogpu/gg font faces;
// non anti-aliased text is rasterized to a mask and thresholded.
package canvas
