
func TestEmulatorLog(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	_, err := doRun(emu, "fld(3.0)\nfld(8.0)\nfyl2x()")
	assert.NoError(err)
	assert.Equal(1, emu.Stack.Depth())
	assert.Equal(fpu.FromFloat64(9), emu.ST(0))

	// An unmasked exception leaves both operands in place.
	emu = NewEmulator()
	_, err = doRun(emu, "unmask('zero-divide')\nfld(1.0)\nfld(0.0)\nfyl2x()")
	assert.ErrorIs(err, fpu.ErrZeroDivide)
	assert.Equal(2, emu.Stack.Depth())
	assert.Equal(fpu.FromFloat64(1), emu.ST(1))
}
