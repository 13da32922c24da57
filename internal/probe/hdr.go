package probe

// HDR classifications returned by HDRType.
const (
	HDRNone = "sdr"
	HDR10   = "hdr10"
	HDRHLG  = "hlg"
	HDRWide = "wide-gamut"
)

// HDRType classifies the primary video stream's color metadata: PQ
// transfer is "hdr10", ARIB STD-B67 is "hlg", BT.2020 primaries with an
// SDR transfer is "wide-gamut", anything else (or no video) is "sdr".
func (p *ProbeResult) HDRType() string {
	v, ok := p.PrimaryVideoStream()
	if !ok {
		return HDRNone
	}

	switch v.ColorTransfer {
	case "smpte2084":
		return HDR10
	case "arib-std-b67":
		return HDRHLG
	}

	if v.ColorPrimaries == "bt2020" {
		return HDRWide
	}
	return HDRNone
}

// IsHDR reports whether HDRType is anything other than "sdr".
func (p *ProbeResult) IsHDR() bool { return p.HDRType() != HDRNone }
