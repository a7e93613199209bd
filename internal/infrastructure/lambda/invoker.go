// Package lambda delivers product events to the recorder function with a
// synchronous RequestResponse invocation.
package lambda

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"

	"github.com/kolyapvp/products-app/internal/domain/event"
)

type API interface {
	Invoke(ctx context.Context, in *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

func NewClient(awsCfg aws.Config, endpoint string) *lambda.Client {
	return lambda.NewFromConfig(awsCfg, func(o *lambda.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

type Invoker struct {
	client       API
	functionName string
}

func NewInvoker(client API, functionName string) *Invoker {
	return &Invoker{client: client, functionName: functionName}
}

func (i *Invoker) Invoke(ctx context.Context, ev event.ProductEvent) (event.Ack, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return event.Ack{}, fmt.Errorf("marshal product event: %w", err)
	}

	out, err := i.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(i.functionName),
		InvocationType: types.InvocationTypeRequestResponse,
		Payload:        payload,
	})
	if err != nil {
		return event.Ack{}, fmt.Errorf("invoke %s: %w", i.functionName, err)
	}
	if out.FunctionError != nil {
		return event.Ack{}, fmt.Errorf("function %s failed (%s): %s", i.functionName, aws.ToString(out.FunctionError), out.Payload)
	}

	var ack event.Ack
	if err := json.Unmarshal(out.Payload, &ack); err != nil {
		return event.Ack{}, fmt.Errorf("decode %s ack: %w", i.functionName, err)
	}
	return ack, nil
}
