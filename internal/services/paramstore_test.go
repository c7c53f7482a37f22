package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/require"
)

type fakeSSM struct {
	out *ssm.GetParameterOutput
	err error
	in  *ssm.GetParameterInput
}

func (f *fakeSSM) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.in = in
	return f.out, f.err
}

func strPtr(s string) *string { return &s }

func TestSSMParamStore_GetParameter(t *testing.T) {
	api := &fakeSSM{out: &ssm.GetParameterOutput{Parameter: &types.Parameter{
		Name: strPtr("/mentor/key"), Value: strPtr("secret"), Type: types.ParameterTypeSecureString,
	}}}
	store, err := NewSSMParamStore(api)
	require.NoError(t, err)

	v, err := store.GetParameter(context.Background(), " /mentor/key ")
	require.NoError(t, err)
	require.Equal(t, "secret", v)
	require.Equal(t, "/mentor/key", *api.in.Name)
	require.True(t, *api.in.WithDecryption)
}

func TestSSMParamStore_Errors(t *testing.T) {
	_, err := NewSSMParamStore(nil)
	require.ErrorContains(t, err, "must not be nil")

	store, err := NewSSMParamStore(&fakeSSM{err: errors.New("boom")})
	require.NoError(t, err)
	_, err = store.GetParameter(context.Background(), "p")
	require.ErrorContains(t, err, "boom")

	_, err = store.GetParameter(context.Background(), "  ")
	require.ErrorContains(t, err, "required")

	store, err = NewSSMParamStore(&fakeSSM{out: &ssm.GetParameterOutput{Parameter: &types.Parameter{Name: strPtr("p")}}})
	require.NoError(t, err)
	_, err = store.GetParameter(context.Background(), "p")
	require.ErrorContains(t, err, "missing value")
}
