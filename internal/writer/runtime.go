package writer

// Runtime declares the registers, flags and helper functions that generated
// functions operate on. Memory is accessed through a host provided mem byte
// array, port output through a host provided out(port, value) function.
const Runtime = `var registerBuffer = new ArrayBuffer(14);
var rp = new Uint16Array(registerBuffer);
var r = new Uint8Array(registerBuffer);
var littleEndian = (function () {
	var word = new Uint16Array([0x0102]);
	return new Uint8Array(word.buffer)[0] === 0x02;
})();

var BC = 1, DE = 2, HL = 3, IX = 4, IY = 5, SP = 6;
var A, B, C, D, E, H, L, IXH, IXL, IYH, IYL, SPH, SPL;
if (littleEndian) {
	A = 1; B = 3; C = 2; D = 5; E = 4; H = 7; L = 6;
	IXH = 9; IXL = 8; IYH = 11; IYL = 10; SPH = 13; SPL = 12;
} else {
	A = 0; B = 2; C = 3; D = 4; E = 5; H = 6; L = 7;
	IXH = 8; IXL = 9; IYH = 10; IYL = 11; SPH = 12; SPL = 13;
}

var zFlag = false, cFlag = false, sFlag = false, pvFlag = false;
var aShadow = 0, fShadow = 0;
var tmp, acc, val;

function parity(value) {
	value ^= value >> 4;
	value ^= value >> 2;
	value ^= value >> 1;
	return !(value & 1);
}

function flags() {
	return (sFlag << 7) | (zFlag << 6) | (pvFlag << 2) | cFlag;
}

function setFlags(value) {
	sFlag = !!(value & 0x80);
	zFlag = !!(value & 0x40);
	pvFlag = !!(value & 0x04);
	cFlag = !!(value & 0x01);
}
`
